package location

import (
	"regexp"
	"strings"

	"github.com/lifelineconnect/lifeline/engine/domain"
)

var zipRe = regexp.MustCompile(`\b\d{5}\b`)

// Extract finds a location in free text. The first five-digit token wins:
// a known ZIP yields its city and the ZIP, an unknown one yields only the ZIP.
// Without a ZIP token, the first configured city that occurs anywhere in the
// lowercased text is returned. City matching is plain substring containment,
// so "tulsan" still matches "tulsa".
func (x *Index) Extract(text string) domain.Location {
	lower := strings.ToLower(text)

	if zip := zipRe.FindString(lower); zip != "" {
		if city, ok := x.zipToCity[zip]; ok {
			return domain.Location{City: city, Zip: zip}
		}
		return domain.Location{Zip: zip}
	}

	for _, city := range x.cities {
		if strings.Contains(lower, city) {
			return domain.Location{City: city}
		}
	}
	return domain.Location{}
}
