// Package dossier assembles a full dossier for a selected profile: one
// contextual web search followed by every enrichment section in parallel.
package dossier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/person-researcher/internal/research"
	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/types"
	"golang.org/x/sync/errgroup"
)

// Researcher is the subset of research.Service the orchestrator needs.
type Researcher interface {
	WebSearch(ctx context.Context, query string) ([]search.Result, error)
	Summary(ctx context.Context, contextPrompt string) (string, error)
	Roast(ctx context.Context, contextPrompt string) (string, error)
	Praise(ctx context.Context, contextPrompt string) (string, error)
	Career(ctx context.Context, contextPrompt string) (*types.Career, error)
	FunFacts(ctx context.Context, profile *types.Profile) (*types.FunFacts, error)
	SimilarProfiles(ctx context.Context, profileURL, profileName string) ([]types.Profile, error)
}

// Store persists completed dossiers.
type Store interface {
	SaveDossier(ctx context.Context, d *types.Dossier) error
}

// EmitFunc receives each section as soon as it settles. Calls are serialized.
type EmitFunc func(types.SectionEvent)

// Config bounds the fan-out.
type Config struct {
	SectionTimeout time.Duration
	Concurrency    int
}

// DefaultConfig returns the default fan-out limits.
func DefaultConfig() Config {
	return Config{
		SectionTimeout: 90 * time.Second,
		Concurrency:    len(types.EnrichmentSections()),
	}
}

// Orchestrator runs dossiers.
type Orchestrator struct {
	research Researcher
	store    Store
	cfg      Config
	now      func() time.Time
}

// New creates an orchestrator. store may be nil.
func New(r Researcher, store Store, cfg Config) *Orchestrator {
	defaults := DefaultConfig()
	if cfg.SectionTimeout <= 0 {
		cfg.SectionTimeout = defaults.SectionTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	return &Orchestrator{
		research: r,
		store:    store,
		cfg:      cfg,
		now:      time.Now,
	}
}

type sectionTask func(ctx context.Context) (any, error)

// Run builds a dossier. Individual section failures are recorded in the
// dossier's Errors and never fail the run; only invalid input does.
func (o *Orchestrator) Run(ctx context.Context, req types.DossierRequest, emit EmitFunc) (*types.Dossier, error) {
	if req.SearchQuery == "" {
		return nil, &research.RequiredError{Field: "searchQuery"}
	}
	if req.SelectedProfile == nil {
		return nil, &research.RequiredError{Field: "selectedProfile"}
	}
	if emit == nil {
		emit = func(types.SectionEvent) {}
	}

	profile := *req.SelectedProfile
	d := &types.Dossier{
		ID:          uuid.NewString(),
		SearchQuery: req.SearchQuery,
		Profile:     profile,
		CreatedAt:   o.now().UTC(),
	}
	log := slog.With("dossier", d.ID, "profile", profile.Name)
	log.InfoContext(ctx, "starting dossier", "query", req.SearchQuery)
	started := time.Now()

	var mu sync.Mutex
	settle := func(section string, data any, err error) {
		mu.Lock()
		defer mu.Unlock()
		event := types.SectionEvent{Section: section, Data: data}
		if err != nil {
			if d.Errors == nil {
				d.Errors = make(map[string]string)
			}
			d.Errors[section] = err.Error()
			event.Error = err.Error()
			if section != types.SectionContext {
				event.Data = nil
			}
			log.WarnContext(ctx, "section failed", "section", section, "error", err)
		} else {
			apply(d, section, data)
		}
		emit(event)
	}

	contextPrompt, searchErr := o.buildContext(ctx, req.SearchQuery, profile)
	if contextPrompt == "" {
		return nil, searchErr
	}
	d.ContextPrompt = contextPrompt
	// A failed search still delivers the profile-only prompt with the error.
	settle(types.SectionContext, contextPrompt, searchErr)

	tasks := o.tasks(contextPrompt, &profile)

	var g errgroup.Group
	g.SetLimit(o.cfg.Concurrency)
	for _, section := range types.EnrichmentSections() {
		task := tasks[section]
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, o.cfg.SectionTimeout)
			defer cancel()
			data, err := task(sctx)
			settle(section, data, err)
			return nil
		})
	}
	_ = g.Wait()

	if o.store != nil {
		if err := o.store.SaveDossier(ctx, d); err != nil {
			log.ErrorContext(ctx, "failed to save dossier", "error", err)
		}
	}

	log.InfoContext(ctx, "dossier complete",
		"duration", time.Since(started).Round(time.Millisecond),
		"failed_sections", len(d.Errors),
	)
	return d, nil
}

// buildContext runs the contextual search and builds the context prompt. A
// failed search still yields a profile-only prompt alongside the error.
func (o *Orchestrator) buildContext(ctx context.Context, query string, profile types.Profile) (string, error) {
	sctx, cancel := context.WithTimeout(ctx, o.cfg.SectionTimeout)
	defer cancel()

	results, searchErr := o.research.WebSearch(sctx, query)
	prompt, err := research.BuildContextPrompt(query, profile, research.ToSearchResults(results))
	if err != nil {
		return "", fmt.Errorf("failed to build context prompt: %w", err)
	}
	return prompt, searchErr
}

func (o *Orchestrator) tasks(contextPrompt string, profile *types.Profile) map[string]sectionTask {
	return map[string]sectionTask{
		types.SectionSummary: func(ctx context.Context) (any, error) {
			return o.research.Summary(ctx, contextPrompt)
		},
		types.SectionRoast: func(ctx context.Context) (any, error) {
			return o.research.Roast(ctx, contextPrompt)
		},
		types.SectionPraise: func(ctx context.Context) (any, error) {
			return o.research.Praise(ctx, contextPrompt)
		},
		types.SectionCareer: func(ctx context.Context) (any, error) {
			return o.research.Career(ctx, contextPrompt)
		},
		types.SectionFunFacts: func(ctx context.Context) (any, error) {
			facts, err := o.research.FunFacts(ctx, profile)
			if err != nil {
				return nil, err
			}
			return facts.FunFacts, nil
		},
		types.SectionSimilar: func(ctx context.Context) (any, error) {
			return o.research.SimilarProfiles(ctx, profile.URL, profile.Name)
		},
	}
}

// apply stores a settled section's data on the dossier.
func apply(d *types.Dossier, section string, data any) {
	switch section {
	case types.SectionSummary:
		d.Summary, _ = data.(string)
	case types.SectionRoast:
		d.Roast, _ = data.(string)
	case types.SectionPraise:
		d.Praise, _ = data.(string)
	case types.SectionCareer:
		d.Career, _ = data.(*types.Career)
	case types.SectionFunFacts:
		d.FunFacts, _ = data.([]types.FunFact)
	case types.SectionSimilar:
		d.Similar, _ = data.([]types.Profile)
	}
}
