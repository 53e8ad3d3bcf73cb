package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SearchRequest is the body of the profile and web search endpoints
type SearchRequest struct {
	SearchQuery string `json:"searchQuery" validate:"required"`
}

// ContextPromptRequest is the body of the LLM enrichment endpoints
type ContextPromptRequest struct {
	ContextPrompt string `json:"contextPrompt" validate:"required"`
}

// SimilarRequest is the body of the similar-people endpoint
type SimilarRequest struct {
	ProfileURL  string `json:"profileUrl" validate:"required"`
	ProfileName string `json:"profileName,omitempty"`
}

// FunFactsRequest is the body of the fun facts endpoint
type FunFactsRequest struct {
	SelectedProfile *Profile `json:"selectedProfile" validate:"required"`
}

// WebsiteRequest is the body of the crunchbase and youtube lookups
type WebsiteRequest struct {
	WebsiteURL string `json:"websiteurl" validate:"required"`
}

// BuildContextRequest is the body of the context prompt endpoint
type BuildContextRequest struct {
	SearchQuery string         `json:"searchQuery" validate:"required"`
	Profile     *Profile       `json:"profile" validate:"required"`
	Results     []SearchResult `json:"results,omitempty"`
}

// DossierRequest is the body of the dossier endpoints
type DossierRequest struct {
	SearchQuery     string   `json:"searchQuery" validate:"required"`
	SelectedProfile *Profile `json:"selectedProfile" validate:"required"`
}

// NewValidator returns a validator that reports field names using their JSON tags,
// so errors read "searchQuery" rather than "SearchQuery".
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

var requestValidator = NewValidator()

// Validate validates the SearchRequest using the validator.
func (r *SearchRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate validates the ContextPromptRequest using the validator.
func (r *ContextPromptRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate validates the SimilarRequest using the validator.
func (r *SimilarRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate validates the FunFactsRequest using the validator.
func (r *FunFactsRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate validates the WebsiteRequest using the validator.
func (r *WebsiteRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate validates the BuildContextRequest using the validator.
func (r *BuildContextRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate validates the DossierRequest using the validator.
func (r *DossierRequest) Validate() error {
	return requestValidator.Struct(r)
}
