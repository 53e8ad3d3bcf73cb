// Package research implements the person research operations: profile
// searches, the contextual web search and the LLM enrichment sections.
package research

import (
	"context"
	"encoding/json"

	"github.com/jonathan/person-researcher/internal/llm"
	"github.com/jonathan/person-researcher/internal/schemas"
	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Service runs research operations against a search provider and an LLM.
type Service struct {
	search search.Provider
	llm    llm.Client
	inst   *telemetry.Instruments

	profileSummarySchema json.RawMessage
	careerSchema         llm.Schema
	funFactsSchema       llm.Schema
}

// Option configures a Service.
type Option func(*Service)

// WithInstruments sets the telemetry instruments used for spans and counters.
func WithInstruments(inst *telemetry.Instruments) Option {
	return func(s *Service) {
		s.inst = inst
	}
}

// NewService creates a research service.
func NewService(provider search.Provider, client llm.Client, opts ...Option) *Service {
	s := &Service{
		search:               provider,
		llm:                  client,
		profileSummarySchema: schemas.MustLoad(schemas.ProfileSummary),
		careerSchema: llm.Schema{
			Name:        "career",
			Description: "Skills and a reverse-chronological career timeline",
			Definition:  schemas.MustLoad(schemas.Career),
			Strict:      true,
		},
		funFactsSchema: llm.Schema{
			Name:        "fun_facts",
			Description: "Lesser-known fun facts with optional sources",
			Definition:  schemas.MustLoad(schemas.FunFacts),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.inst == nil {
		s.inst = telemetry.Default()
	}
	return s
}

// SearchProviderName returns the name of the configured search provider.
func (s *Service) SearchProviderName() string {
	return s.search.Name()
}

// CanResearch reports whether fun facts come from a research task rather
// than the LLM.
func (s *Service) CanResearch() bool {
	_, ok := s.search.(search.Researcher)
	return ok
}

func (s *Service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, *telemetry.Operation) {
	return s.inst.Start(ctx, "research."+op, attrs...)
}
