package domain

import "strings"

// ValidateResource checks a Resource before it is admitted to the table.
// A blank (or whitespace-only) name is the only rejection.
func ValidateResource(r Resource) error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name", r.Name, ErrMissingName)
	}
	return nil
}
