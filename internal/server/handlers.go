package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jonathan/person-researcher/internal/db"
	"github.com/jonathan/person-researcher/internal/dossier"
	"github.com/jonathan/person-researcher/internal/research"
	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/types"
)

// Researcher is the research surface exposed by the API.
type Researcher interface {
	LinkedInProfiles(ctx context.Context, query string) ([]types.Profile, error)
	WikipediaProfiles(ctx context.Context, query string) ([]types.Profile, error)
	SearchProfiles(ctx context.Context, query string) (*types.ProfileCandidates, error)
	WebSearch(ctx context.Context, query string) ([]search.Result, error)
	SimilarProfiles(ctx context.Context, profileURL, profileName string) ([]types.Profile, error)
	CrunchbasePages(ctx context.Context, websiteURL string) ([]search.Result, error)
	YouTubeVideos(ctx context.Context, websiteURL string) ([]search.Result, error)
	Summary(ctx context.Context, contextPrompt string) (string, error)
	Roast(ctx context.Context, contextPrompt string) (string, error)
	Praise(ctx context.Context, contextPrompt string) (string, error)
	Career(ctx context.Context, contextPrompt string) (*types.Career, error)
	FunFacts(ctx context.Context, profile *types.Profile) (*types.FunFacts, error)
}

// DossierRunner builds dossiers.
type DossierRunner interface {
	Run(ctx context.Context, req types.DossierRequest, emit dossier.EmitFunc) (*types.Dossier, error)
}

// DossierHistory reads stored dossiers.
type DossierHistory interface {
	GetDossier(ctx context.Context, id string) (*types.Dossier, error)
	ListDossiers(ctx context.Context, filters db.DossierFilters) ([]db.DossierSummary, error)
}

// validatable is implemented by every request body type.
type validatable interface {
	Validate() error
}

// ResultsResponse wraps list endpoints
type ResultsResponse[T any] struct {
	Results []T `json:"results"`
}

// ContextPromptResponse is the response of /api/contextPrompt
type ContextPromptResponse struct {
	ContextPrompt string `json:"contextPrompt"`
}

// DossierListResponse is the response of GET /api/dossiers
type DossierListResponse struct {
	Dossiers []db.DossierSummary `json:"dossiers"`
}

// decodeRequest decodes and validates the request body into req. An empty
// body is treated as an empty object so missing fields are reported by name.
// It writes the 400 response itself and returns false on failure.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, req validatable) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationError(err).Error())
		return false
	}
	return true
}

func results[T any](items []T) ResultsResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ResultsResponse[T]{Results: items}
}

// profileList serves an endpoint that turns a search query into profiles
func (s *Server) profileList(w http.ResponseWriter, r *http.Request, find func(context.Context, string) ([]types.Profile, error)) {
	var req types.SearchRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	profiles, err := find(r.Context(), req.SearchQuery)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, results(profiles))
}

// handleLinkedIn returns LinkedIn profile candidates
func (s *Server) handleLinkedIn(w http.ResponseWriter, r *http.Request) {
	s.profileList(w, r, s.research.LinkedInProfiles)
}

// handleWikipedia returns Wikipedia profile candidates
func (s *Server) handleWikipedia(w http.ResponseWriter, r *http.Request) {
	s.profileList(w, r, s.research.WikipediaProfiles)
}

// handleProfiles searches both profile sources at once
func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	var req types.SearchRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	candidates, err := s.research.SearchProfiles(r.Context(), req.SearchQuery)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	if candidates.LinkedIn == nil {
		candidates.LinkedIn = []types.Profile{}
	}
	if candidates.Wikipedia == nil {
		candidates.Wikipedia = []types.Profile{}
	}
	s.jsonResponse(w, http.StatusOK, candidates)
}

// handleWebSearch runs a general web search with page text
func (s *Server) handleWebSearch(w http.ResponseWriter, r *http.Request) {
	var req types.SearchRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	found, err := s.research.WebSearch(r.Context(), req.SearchQuery)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, results(found))
}

// handleSimilar returns people similar to a profile
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	var req types.SimilarRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	profiles, err := s.research.SimilarProfiles(r.Context(), req.ProfileURL, req.ProfileName)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, results(profiles))
}

// websiteLookup serves an endpoint that searches around a website URL
func (s *Server) websiteLookup(w http.ResponseWriter, r *http.Request, find func(context.Context, string) ([]search.Result, error)) {
	var req types.WebsiteRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	found, err := find(r.Context(), req.WebsiteURL)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, results(found))
}

// handleCrunchbase finds the Crunchbase page of a website
func (s *Server) handleCrunchbase(w http.ResponseWriter, r *http.Request) {
	s.websiteLookup(w, r, s.research.CrunchbasePages)
}

// handleYouTube finds YouTube videos about a website
func (s *Server) handleYouTube(w http.ResponseWriter, r *http.Request) {
	s.websiteLookup(w, r, s.research.YouTubeVideos)
}

// handleContextPrompt assembles the context prompt from a profile and search results
func (s *Server) handleContextPrompt(w http.ResponseWriter, r *http.Request) {
	var req types.BuildContextRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	prompt, err := research.BuildContextPrompt(req.SearchQuery, *req.Profile, req.Results)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ContextPromptResponse{ContextPrompt: prompt})
}

// textSection serves an LLM section that returns a single text field
func (s *Server) textSection(w http.ResponseWriter, r *http.Request, key string, generate func(context.Context, string) (string, error)) {
	var req types.ContextPromptRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	text, err := generate(r.Context(), req.ContextPrompt)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{key: text})
}

// handleSummary writes the encyclopedia-style summary
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.textSection(w, r, "summary", s.research.Summary)
}

// handleRoast writes the roast
func (s *Server) handleRoast(w http.ResponseWriter, r *http.Request) {
	s.textSection(w, r, "roast", s.research.Roast)
}

// handlePraise writes the praise
func (s *Server) handlePraise(w http.ResponseWriter, r *http.Request) {
	s.textSection(w, r, "praise", s.research.Praise)
}

// handleCareer extracts skills and the career timeline
func (s *Server) handleCareer(w http.ResponseWriter, r *http.Request) {
	var req types.ContextPromptRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	career, err := s.research.Career(r.Context(), req.ContextPrompt)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, career)
}

// handleFunFacts researches lesser-known facts about the selected profile
func (s *Server) handleFunFacts(w http.ResponseWriter, r *http.Request) {
	var req types.FunFactsRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	facts, err := s.research.FunFacts(r.Context(), req.SelectedProfile)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	if facts.FunFacts == nil {
		facts.FunFacts = []types.FunFact{}
	}
	s.jsonResponse(w, http.StatusOK, facts)
}

// handleDossier builds a full dossier and returns it once every section settled
func (s *Server) handleDossier(w http.ResponseWriter, r *http.Request) {
	var req types.DossierRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	d, err := s.dossiers.Run(r.Context(), req, nil)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, d)
}

// handleDossierStream builds a dossier and streams each section as it settles
func (s *Server) handleDossierStream(w http.ResponseWriter, r *http.Request) {
	var req types.DossierRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	defer sse.Close()
	stopKeepAlive := sse.KeepAlive(s.keepAlive)

	ctx := r.Context()
	d, err := s.dossiers.Run(ctx, req, func(event types.SectionEvent) {
		if err := sse.WriteEvent(EventSection, event); err != nil {
			slog.WarnContext(ctx, "failed to write SSE event", "section", event.Section, "error", err)
		}
	})
	stopKeepAlive()
	if err != nil {
		slog.ErrorContext(ctx, "dossier stream failed", "error", err)
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(d)
}

// handleListDossiers lists stored dossiers, newest first
func (s *Server) handleListDossiers(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.failResponse(w, r, &ErrUnavailable{Feature: "dossier history"})
		return
	}

	filters := db.DossierFilters{
		Query:      r.URL.Query().Get("q"),
		ProfileURL: r.URL.Query().Get("profileUrl"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filters.Limit = n
	}

	list, err := s.history.ListDossiers(r.Context(), filters)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	if list == nil {
		list = []db.DossierSummary{}
	}
	s.jsonResponse(w, http.StatusOK, DossierListResponse{Dossiers: list})
}

// handleGetDossier returns one stored dossier
func (s *Server) handleGetDossier(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.failResponse(w, r, &ErrUnavailable{Feature: "dossier history"})
		return
	}

	id := r.PathValue("id")
	d, err := s.history.GetDossier(r.Context(), id)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	if d == nil {
		s.failResponse(w, r, &ErrNotFound{Kind: "dossier", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, d)
}
