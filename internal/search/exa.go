package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// ExaAPIEndpoint is the Exa API base URL.
	ExaAPIEndpoint = "https://api.exa.ai"
	// ExaResearchModel is the default research task model.
	ExaResearchModel = "exa-research"

	defaultPollInterval = 2 * time.Second
)

// ExaClient implements Provider and Researcher over the Exa HTTP API.
type ExaClient struct {
	apiKey       string
	endpoint     string
	httpClient   *http.Client
	pollInterval time.Duration
}

// ExaOption configures an ExaClient.
type ExaOption func(*ExaClient)

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) ExaOption {
	return func(c *ExaClient) {
		c.endpoint = strings.TrimSuffix(endpoint, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) ExaOption {
	return func(c *ExaClient) {
		c.httpClient = client
	}
}

// WithPollInterval sets how often research tasks are polled.
func WithPollInterval(d time.Duration) ExaOption {
	return func(c *ExaClient) {
		c.pollInterval = d
	}
}

// NewExaClient creates a new Exa API client.
func NewExaClient(apiKey string, opts ...ExaOption) (client *ExaClient, err error) {
	if apiKey == "" {
		err = errors.New("exa API key is required")
		return client, err
	}

	client = &ExaClient{
		apiKey:   apiKey,
		endpoint: ExaAPIEndpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, err
}

// Name returns the provider name.
func (c *ExaClient) Name() string {
	return "exa"
}

type exaSummary struct {
	Query  string          `json:"query,omitempty"`
	Schema json.RawMessage `json:"schema,omitempty"`
}

type exaContents struct {
	Text    bool        `json:"text,omitempty"`
	Summary *exaSummary `json:"summary,omitempty"`
}

type exaSearchRequest struct {
	Query          string       `json:"query"`
	Type           string       `json:"type,omitempty"`
	NumResults     int          `json:"numResults,omitempty"`
	Category       string       `json:"category,omitempty"`
	IncludeDomains []string     `json:"includeDomains,omitempty"`
	IncludeText    []string     `json:"includeText,omitempty"`
	Contents       *exaContents `json:"contents,omitempty"`
}

type exaFindSimilarRequest struct {
	URL            string       `json:"url"`
	NumResults     int          `json:"numResults,omitempty"`
	IncludeDomains []string     `json:"includeDomains,omitempty"`
	Contents       *exaContents `json:"contents,omitempty"`
}

type exaSearchResponse struct {
	RequestID string   `json:"requestId"`
	Results   []Result `json:"results"`
}

type exaResearchRequest struct {
	Model        string            `json:"model"`
	Instructions string            `json:"instructions"`
	Output       exaResearchOutput `json:"output"`
}

type exaResearchOutput struct {
	Schema json.RawMessage `json:"schema,omitempty"`
}

type exaResearchTask struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func toExaContents(contents Contents) *exaContents {
	if !contents.Text && contents.Summary == nil {
		return nil
	}
	out := &exaContents{Text: contents.Text}
	if contents.Summary != nil {
		out.Summary = &exaSummary{
			Query:  contents.Summary.Query,
			Schema: contents.Summary.Schema,
		}
	}
	return out
}

// Search runs a search and returns results with the requested contents.
func (c *ExaClient) Search(ctx context.Context, q Query) (results []Result, err error) {
	req := exaSearchRequest{
		Query:          q.Text,
		Type:           string(q.Type),
		NumResults:     q.NumResults,
		Category:       q.Category,
		IncludeDomains: q.IncludeDomains,
		IncludeText:    q.IncludeText,
		Contents:       toExaContents(q.Contents),
	}

	var resp exaSearchResponse
	err = c.do(ctx, http.MethodPost, "/search", req, &resp)
	if err != nil {
		err = errors.Wrap(err, "exa search failed")
		return results, err
	}

	results = resp.Results
	return results, err
}

// FindSimilar returns pages similar to the given URL.
func (c *ExaClient) FindSimilar(ctx context.Context, q SimilarQuery) (results []Result, err error) {
	req := exaFindSimilarRequest{
		URL:            q.URL,
		NumResults:     q.NumResults,
		IncludeDomains: q.IncludeDomains,
		Contents:       toExaContents(q.Contents),
	}

	var resp exaSearchResponse
	err = c.do(ctx, http.MethodPost, "/findSimilar", req, &resp)
	if err != nil {
		err = errors.Wrap(err, "exa findSimilar failed")
		return results, err
	}

	results = resp.Results
	return results, err
}

// Research creates a research task and polls it until it completes, fails,
// or ctx is done.
func (c *ExaClient) Research(ctx context.Context, task ResearchTask) (data json.RawMessage, err error) {
	model := task.Model
	if model == "" {
		model = ExaResearchModel
	}

	var created exaResearchTask
	err = c.do(ctx, http.MethodPost, "/research/v0/tasks", exaResearchRequest{
		Model:        model,
		Instructions: task.Instructions,
		Output:       exaResearchOutput{Schema: task.Schema},
	}, &created)
	if err != nil {
		err = errors.Wrap(err, "failed to create research task")
		return data, err
	}
	if created.ID == "" {
		err = errors.New("research task created without an id")
		return data, err
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var current exaResearchTask
		err = c.do(ctx, http.MethodGet, "/research/v0/tasks/"+created.ID, nil, &current)
		if err != nil {
			err = errors.Wrapf(err, "failed to poll research task %s", created.ID)
			return data, err
		}

		switch current.Status {
		case "completed":
			data = current.Data
			return data, err
		case "failed", "canceled", "cancelled":
			err = &ResearchFailedError{TaskID: created.ID, Status: current.Status}
			return data, err
		}

		select {
		case <-ctx.Done():
			err = errors.Wrapf(ctx.Err(), "research task %s did not finish", created.ID)
			return data, err
		case <-ticker.C:
		}
	}
}

// do sends a JSON request and decodes a JSON response into out.
func (c *ExaClient) do(ctx context.Context, method, path string, in, out any) (err error) {
	var body io.Reader
	if in != nil {
		var reqBody []byte
		reqBody, err = json.Marshal(in)
		if err != nil {
			err = errors.Wrap(err, "failed to marshal request")
			return err
		}
		body = bytes.NewReader(reqBody)
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return err
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = &APIError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: string(respBody)}
		return err
	}

	err = json.Unmarshal(respBody, out)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse response from %s", path)
		return err
	}

	return err
}
