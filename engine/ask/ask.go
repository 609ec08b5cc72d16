// Package ask answers free-text questions: it extracts a location and topic,
// filters the resource table, and phrases a short response.
package ask

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lifelineconnect/lifeline/engine/domain"
	"github.com/lifelineconnect/lifeline/engine/filter"
	"github.com/lifelineconnect/lifeline/engine/location"
	"github.com/lifelineconnect/lifeline/engine/topic"
	"github.com/lifelineconnect/lifeline/pkg/fn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxResults caps the resources returned for one question.
	MaxResults = 10
	// PromptMessage answers an empty question.
	PromptMessage = "Please enter a question."
	// AnyArea stands in for the location when none was found.
	AnyArea = "your area"
)

// Answer is the result of one question.
type Answer struct {
	Response  string
	Resources []domain.Resource

	Location domain.Location
	Topic    domain.Topic
	// Matched is the number of rows the filters selected before the cap.
	Matched int
	// Fallback is set when the filters matched nothing and the answer lists
	// rows from the whole table instead.
	Fallback bool
	// Empty is set for blank questions, which are answered with PromptMessage.
	Empty bool
}

// TableFunc returns the current resource table.
type TableFunc func() []domain.Resource

// Composer answers questions against an index and a resource table.
type Composer struct {
	idx    *location.Index
	table  TableFunc
	logger *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger used for per-question debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// New creates a Composer. table is called once per question so a reloaded
// catalog is picked up without rebuilding the Composer.
func New(idx *location.Index, table TableFunc, opts ...Option) *Composer {
	c := &Composer{idx: idx, table: table, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, o := range opts {
		o(c)
	}
	return c
}

type parsed struct {
	query    string
	location domain.Location
	topic    domain.Topic
}

// Answer answers query. It never fails: a blank query gets PromptMessage and
// no resources; a query whose filters select nothing gets the first rows of
// the unfiltered table.
func (c *Composer) Answer(ctx context.Context, query string) Answer {
	if strings.TrimSpace(query) == "" {
		return Answer{Response: PromptMessage, Resources: []domain.Resource{}, Topic: domain.TopicNone, Empty: true}
	}

	table := c.table()
	run := fn.Then(
		fn.TracedStage("ask.parse", fn.MapStage(c.parse)),
		fn.TracedStage("ask.select", fn.MapStage(func(p parsed) Answer { return c.selectRows(table, p) })),
	)
	ans := c.settle(ctx, run(ctx, query), table)

	c.logger.DebugContext(ctx, "question answered",
		"city", ans.Location.City,
		"zip", ans.Location.Zip,
		"topic", ans.Topic,
		"matched", ans.Matched,
		"fallback", ans.Fallback,
	)
	return ans
}

// settle unwraps the pipeline result. A failed stage is logged and answered
// like an unmatched question.
func (c *Composer) settle(ctx context.Context, r fn.Result[Answer], table []domain.Resource) Answer {
	ans, err := r.Unwrap()
	if err == nil {
		return ans
	}
	c.logger.ErrorContext(ctx, "question pipeline failed", "err", err)
	return Answer{
		Response:  Sentence(domain.TopicNone, domain.Location{}),
		Resources: fn.Take(table, MaxResults),
		Topic:     domain.TopicNone,
		Fallback:  true,
	}
}

func (c *Composer) parse(query string) parsed {
	return parsed{
		query:    query,
		location: c.idx.Extract(query),
		topic:    topic.Classify(query),
	}
}

func (c *Composer) selectRows(table []domain.Resource, p parsed) Answer {
	matched := filter.Filter(table, c.idx, domain.Criteria{
		City:  p.location.City,
		Zip:   p.location.Zip,
		Topic: p.topic,
	})

	rows := matched
	fallback := len(matched) == 0
	if fallback {
		rows = table
	}

	return Answer{
		Response:  Sentence(p.topic, p.location),
		Resources: fn.Take(rows, MaxResults),
		Location:  p.location,
		Topic:     p.topic,
		Matched:   len(matched),
		Fallback:  fallback,
	}
}

// Sentence phrases the response line for a topic and location, e.g.
// "Here are some food resources near Tulsa:".
func Sentence(t domain.Topic, loc domain.Location) string {
	topicWord := ""
	if d := topic.Display(t); d != "" {
		topicWord = d + " "
	}
	return fmt.Sprintf("Here are some %sresources near %s:", topicWord, placeName(loc))
}

func placeName(loc domain.Location) string {
	switch {
	case loc.City != "":
		return cases.Title(language.English).String(loc.City)
	case loc.Zip != "":
		return loc.Zip
	default:
		return AnyArea
	}
}
