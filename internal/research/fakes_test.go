package research

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jonathan/person-researcher/internal/llm"
	"github.com/jonathan/person-researcher/internal/search"
)

type fakeProvider struct {
	mu        sync.Mutex
	searchFn  func(q search.Query) ([]search.Result, error)
	similarFn func(q search.SimilarQuery) ([]search.Result, error)
	queries   []search.Query
	similar   []search.SimilarQuery
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(_ context.Context, q search.Query) ([]search.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(q)
}

func (f *fakeProvider) FindSimilar(_ context.Context, q search.SimilarQuery) ([]search.Result, error) {
	f.mu.Lock()
	f.similar = append(f.similar, q)
	f.mu.Unlock()
	if f.similarFn == nil {
		return nil, search.ErrUnsupported
	}
	return f.similarFn(q)
}

type researchProvider struct {
	fakeProvider
	researchFn func(task search.ResearchTask) (json.RawMessage, error)
	tasks      []search.ResearchTask
}

func (r *researchProvider) Research(_ context.Context, task search.ResearchTask) (json.RawMessage, error) {
	r.tasks = append(r.tasks, task)
	return r.researchFn(task)
}

type fakeLLM struct {
	mu           sync.Mutex
	contentFn    func(prompt string) (string, error)
	structuredFn func(prompt string, schema llm.Schema) (string, error)
	prompts      []string
}

func (f *fakeLLM) record(prompt string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.record(prompt)
	return f.contentFn(prompt)
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.record(prompt)
	return f.contentFn(prompt)
}

func (f *fakeLLM) GenerateStructured(_ context.Context, prompt string, schema llm.Schema, _ llm.ModelTier) (string, error) {
	f.record(prompt)
	return f.structuredFn(prompt, schema)
}

func (f *fakeLLM) GetModel(tier llm.ModelTier) string { return "fake-" + string(tier) }

func (f *fakeLLM) Close() error { return nil }

func summaryJSON(name, headline string) string {
	data, _ := json.Marshal(map[string]string{"name": name, "headline": headline})
	return string(data)
}
