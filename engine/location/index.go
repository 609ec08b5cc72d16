// Package location resolves ZIP codes and city names against a static
// city/ZIP table and extracts locations from free text.
package location

import (
	"strings"

	"github.com/lifelineconnect/lifeline/engine/domain"
)

// CityZips is one entry of the static city/ZIP configuration.
type CityZips struct {
	City string   `yaml:"name"`
	Zips []string `yaml:"zips"`
}

// Index is the bidirectional city/ZIP lookup. It is immutable after NewIndex
// returns and safe for concurrent reads.
type Index struct {
	cities     []string            // configuration order
	cityToZips map[string][]string // lowercase city -> zips
	zipToCity  map[string]string   // zip -> lowercase city
}

// NewIndex builds an Index from configuration entries. City names and ZIPs
// are trimmed and lowercased. A ZIP claimed by two cities, a repeated city, or
// an empty city/ZIP yields a *domain.ConfigurationError.
func NewIndex(entries []CityZips) (*Index, error) {
	idx := &Index{
		cityToZips: make(map[string][]string, len(entries)),
		zipToCity:  make(map[string]string),
	}
	for _, e := range entries {
		city := normalize(e.City)
		if city == "" {
			return nil, &domain.ConfigurationError{City: e.City, Wrapped: domain.ErrEmptyCity}
		}
		if _, dup := idx.cityToZips[city]; dup {
			return nil, &domain.ConfigurationError{City: city, Wrapped: domain.ErrDuplicateCity}
		}

		zips := make([]string, 0, len(e.Zips))
		for _, raw := range e.Zips {
			zip := normalize(raw)
			if zip == "" {
				return nil, &domain.ConfigurationError{City: city, Zip: raw, Wrapped: domain.ErrEmptyZip}
			}
			if owner, ok := idx.zipToCity[zip]; ok {
				if owner == city {
					continue // repeated within the same city
				}
				return nil, &domain.ConfigurationError{City: city, Zip: zip, Other: owner, Wrapped: domain.ErrDuplicateZip}
			}
			idx.zipToCity[zip] = city
			zips = append(zips, zip)
		}
		idx.cities = append(idx.cities, city)
		idx.cityToZips[city] = zips
	}
	return idx, nil
}

// MustNewIndex is like NewIndex but panics on a bad configuration.
func MustNewIndex(entries []CityZips) *Index {
	idx, err := NewIndex(entries)
	if err != nil {
		panic(err)
	}
	return idx
}

// ResolveCity returns the lowercase city owning zip.
func (x *Index) ResolveCity(zip string) (string, bool) {
	city, ok := x.zipToCity[normalize(zip)]
	return city, ok
}

// ZipsForCity returns the ZIPs configured for city (case-insensitive). The
// returned slice is a copy and is empty for unknown cities.
func (x *Index) ZipsForCity(city string) []string {
	zips := x.cityToZips[normalize(city)]
	out := make([]string, len(zips))
	copy(out, zips)
	return out
}

// HasZip reports whether zip belongs to city. city is normalized like the
// other lookups; zip is a resource's stored value and must equal a configured
// ZIP exactly, so " 74127" is not a Tulsa ZIP.
func (x *Index) HasZip(city, zip string) bool {
	owner, ok := x.zipToCity[zip]
	return ok && owner == normalize(city)
}

// Cities returns the city keys in configuration order.
func (x *Index) Cities() []string {
	out := make([]string, len(x.cities))
	copy(out, x.cities)
	return out
}

// Len returns the number of configured ZIPs.
func (x *Index) Len() int { return len(x.zipToCity) }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
