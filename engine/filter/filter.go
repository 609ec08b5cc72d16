// Package filter selects resources from the table by location, virtual
// availability, and topic.
package filter

import (
	"strconv"
	"strings"

	"github.com/lifelineconnect/lifeline/engine/domain"
	"github.com/lifelineconnect/lifeline/engine/location"
	"github.com/lifelineconnect/lifeline/engine/topic"
	"github.com/lifelineconnect/lifeline/pkg/fn"
)

// Filter returns the rows of table matching c, in table order. It never
// modifies table and always returns a non-nil slice.
//
// City and Zip are mutually exclusive with City taking precedence. A ZIP
// known to idx selects every row in any ZIP of its city plus rows tagged with
// the city by name; an unknown ZIP selects rows with exactly that ZIP.
func Filter(table []domain.Resource, idx *location.Index, c domain.Criteria) []domain.Resource {
	return fn.Filter(table, Predicates(idx, c))
}

// Predicates builds the combined predicate for c.
func Predicates(idx *location.Index, c domain.Criteria) fn.Predicate[domain.Resource] {
	var preds []fn.Predicate[domain.Resource]

	switch {
	case c.City != "":
		preds = append(preds, CityIs(c.City))
	case c.Zip != "":
		if city, ok := idx.ResolveCity(c.Zip); ok {
			preds = append(preds, InCity(idx, city))
		} else {
			preds = append(preds, ZipIs(c.Zip))
		}
	}

	if c.Virtual != nil {
		preds = append(preds, VirtualIs(*c.Virtual))
	}

	if rule, ok := topic.RuleFor(c.Topic); ok {
		preds = append(preds, rule.Matches)
	}

	return fn.And(preds...)
}

// CityIs matches rows whose city equals city, ignoring case.
func CityIs(city string) fn.Predicate[domain.Resource] {
	return func(r domain.Resource) bool {
		return strings.EqualFold(r.City, city)
	}
}

// ZipIs matches rows whose zip is exactly zip.
func ZipIs(zip string) fn.Predicate[domain.Resource] {
	return func(r domain.Resource) bool {
		return r.Zip == zip
	}
}

// InCity matches rows carrying one of city's ZIPs or naming city.
func InCity(idx *location.Index, city string) fn.Predicate[domain.Resource] {
	byName := CityIs(city)
	return func(r domain.Resource) bool {
		return idx.HasZip(city, r.Zip) || byName(r)
	}
}

// VirtualIs matches rows whose isvirtual text is "true" or "false" as given,
// ignoring case.
func VirtualIs(virtual bool) fn.Predicate[domain.Resource] {
	want := strconv.FormatBool(virtual)
	return func(r domain.Resource) bool {
		return strings.ToLower(r.IsVirtual) == want
	}
}
