//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request SearchRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			request: SearchRequest{SearchQuery: "Will Bryk, Exa CEO"},
		},
		{
			name:    "missing query",
			request: SearchRequest{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	tests := []struct {
		name      string
		validate  func() error
		wantField string
	}{
		{"search query", (&SearchRequest{}).Validate, "searchQuery"},
		{"context prompt", (&ContextPromptRequest{}).Validate, "contextPrompt"},
		{"profile url", (&SimilarRequest{ProfileName: "Ada"}).Validate, "profileUrl"},
		{"selected profile", (&FunFactsRequest{}).Validate, "selectedProfile"},
		{"website url", (&WebsiteRequest{}).Validate, "websiteurl"},
		{"dossier profile", (&DossierRequest{SearchQuery: "ada"}).Validate, "selectedProfile"},
		{"context profile", (&BuildContextRequest{SearchQuery: "ada"}).Validate, "profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate()
			require.Error(t, err)

			var validationErrors validator.ValidationErrors
			require.True(t, errors.As(err, &validationErrors))
			assert.Equal(t, tt.wantField, validationErrors[0].Field())
			assert.Equal(t, "required", validationErrors[0].Tag())
		})
	}
}

func TestFunFactsRequest_ProfileWithoutFieldsIsValid(t *testing.T) {
	req := FunFactsRequest{SelectedProfile: &Profile{}}
	assert.NoError(t, req.Validate())
}
