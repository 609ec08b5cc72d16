// Package catalog loads the resource table from CSV and publishes it as an
// immutable snapshot.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lifelineconnect/lifeline/engine/domain"
)

// ErrNoNameColumn is returned when the header has no name column.
var ErrNoNameColumn = errors.New("catalog: no name column")

// Canonical column names, in Resource field order.
var Columns = []string{
	"category", "name", "phone", "description", "address",
	"city", "state", "zip", "isvirtual", "website", "areas_served",
}

// headerAliases maps historical column names to canonical ones.
var headerAliases = map[string]string{
	"isVirtual":    "isvirtual",
	"is_virtual":   "isvirtual",
	"Areas_Served": "areas_served",
	"areasServed":  "areas_served",
}

// Result is the outcome of parsing a resource file.
type Result struct {
	Resources []domain.Resource
	// Rejected holds one *domain.ValidationError per dropped row.
	Rejected []error
	// Synthesized lists canonical columns absent from the header.
	Synthesized []string
}

// Parse reads a resource CSV. Headers are normalized (BOM, whitespace,
// historical aliases, case) and canonical columns missing from the file read
// as empty strings. Rows without a name are dropped and reported in
// Result.Rejected rather than served.
func Parse(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var result Result

	header, err := reader.Read()
	if err == io.EOF {
		return result, ErrNoNameColumn
	}
	if err != nil {
		return result, fmt.Errorf("catalog: read header: %w", err)
	}

	pos := columnPositions(header)
	if _, ok := pos["name"]; !ok {
		return result, ErrNoNameColumn
	}
	for _, col := range Columns {
		if _, ok := pos[col]; !ok {
			result.Synthesized = append(result.Synthesized, col)
		}
	}

	result.Resources = make([]domain.Resource, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("catalog: %w", err)
		}
		if blank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		res := toResource(record, pos)
		if err := domain.ValidateResource(res); err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				ve.Line = line
			}
			result.Rejected = append(result.Rejected, err)
			continue
		}
		result.Resources = append(result.Resources, res)
	}
	return result, nil
}

// NormalizeHeader maps a raw header cell to its canonical column name.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return strings.ToLower(h)
}

// columnPositions returns canonical column -> record index. The first
// occurrence of a column wins.
func columnPositions(header []string) map[string]int {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		col := NormalizeHeader(h)
		if _, seen := pos[col]; !seen {
			pos[col] = i
		}
	}
	return pos
}

func toResource(record []string, pos map[string]int) domain.Resource {
	get := func(col string) string {
		i, ok := pos[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	return domain.Resource{
		Category:    get("category"),
		Name:        get("name"),
		Phone:       get("phone"),
		Description: get("description"),
		Address:     get("address"),
		City:        get("city"),
		State:       get("state"),
		Zip:         get("zip"),
		IsVirtual:   get("isvirtual"),
		Website:     get("website"),
		AreasServed: get("areas_served"),
	}
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
