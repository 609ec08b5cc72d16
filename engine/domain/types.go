// Package domain defines the core types, topics, and validation shared by the
// LifeLine lookup engine.
package domain

// Resource is one community-support entry. Every field is plain text and
// defaults to the empty string; only Name is required.
type Resource struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	IsVirtual   string `json:"isvirtual"`
	Website     string `json:"website"`
	AreasServed string `json:"areas_served"`
}

// Topic is the subject category a free-text question is classified into.
type Topic string

const (
	TopicNone         Topic = "none"
	TopicFood         Topic = "food"
	TopicHousing      Topic = "housing"
	TopicUtilities    Topic = "utilities"
	TopicMentalHealth Topic = "mental_health"
)

// Topics lists the matchable topics in classification precedence order.
var Topics = []Topic{TopicFood, TopicHousing, TopicUtilities, TopicMentalHealth}

// IsNone reports whether t carries no topic. The zero value counts as none.
func (t Topic) IsNone() bool { return t == "" || t == TopicNone }

// Criteria selects a subset of the resource table. Empty strings mean "not
// given" and a nil Virtual means "unspecified".
type Criteria struct {
	City    string
	Zip     string
	Virtual *bool
	Topic   Topic
}

// Location is the (city, zip) pair extracted from free text. City is the
// lowercase index key when resolved.
type Location struct {
	City string `json:"city,omitempty"`
	Zip  string `json:"zip,omitempty"`
}

// Empty reports whether neither a city nor a ZIP was found.
func (l Location) Empty() bool { return l.City == "" && l.Zip == "" }
