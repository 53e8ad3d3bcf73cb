package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/person-researcher/internal/llm"
	"github.com/jonathan/person-researcher/internal/prompts"
	"github.com/jonathan/person-researcher/internal/schemas"
	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/types"
	"go.opentelemetry.io/otel/attribute"
)

// Summary writes a short encyclopedia-style introduction from the context prompt.
func (s *Service) Summary(ctx context.Context, contextPrompt string) (string, error) {
	return s.generateText(ctx, "summary", prompts.KeySummary, MsgSummary, contextPrompt)
}

// Roast writes a playful roast from the context prompt.
func (s *Service) Roast(ctx context.Context, contextPrompt string) (string, error) {
	return s.generateText(ctx, "roast", prompts.KeyRoast, MsgRoast, contextPrompt)
}

// Praise writes an affirmation paragraph from the context prompt.
func (s *Service) Praise(ctx context.Context, contextPrompt string) (string, error) {
	return s.generateText(ctx, "praise", prompts.KeyPraise, MsgPraise, contextPrompt)
}

func (s *Service) generateText(ctx context.Context, name, key, message, contextPrompt string) (text string, err error) {
	if contextPrompt == "" {
		return "", &RequiredError{Field: "contextPrompt"}
	}
	ctx, op := s.start(ctx, name, attribute.String("model", s.llm.GetModel(llm.TierAdvanced)))
	defer func() { op.End(ctx, err) }()

	prompt, err := prompts.Render(key, map[string]string{"ContextPrompt": contextPrompt})
	if err != nil {
		return "", fail(message, err)
	}

	text, err = s.llm.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		slog.ErrorContext(ctx, "generation failed", "section", name, "error", err)
		return "", fail(message, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fail(message, fmt.Errorf("empty response from model"))
	}
	return text, nil
}

// Career extracts skills and a career timeline from the context prompt. A
// result without skills or without timeline entries is ErrEmptyCareer.
func (s *Service) Career(ctx context.Context, contextPrompt string) (career *types.Career, err error) {
	if contextPrompt == "" {
		return nil, &RequiredError{Field: "contextPrompt"}
	}
	ctx, op := s.start(ctx, "career", attribute.String("model", s.llm.GetModel(llm.TierStandard)))
	defer func() { op.End(ctx, err) }()

	prompt, err := prompts.Render(prompts.KeyCareer, map[string]string{"ContextPrompt": contextPrompt})
	if err != nil {
		return nil, fail(MsgCareer, err)
	}

	raw, err := s.llm.GenerateStructured(ctx, prompt, s.careerSchema, llm.TierStandard)
	if err != nil {
		slog.ErrorContext(ctx, "career generation failed", "error", err)
		return nil, fail(MsgCareer, err)
	}

	career = &types.Career{}
	if err = decodeValidated(schemas.Career, llm.CleanJSONBlock(raw), career); err != nil {
		slog.WarnContext(ctx, "career output rejected", "error", err)
		return nil, fail(MsgCareer, err)
	}
	if career.IsEmpty() {
		return nil, ErrEmptyCareer
	}
	return career, nil
}

// FunFacts finds lesser-known facts about a profile. Providers that can run
// research tasks are used directly; otherwise the LLM answers from the
// profile text alone.
func (s *Service) FunFacts(ctx context.Context, profile *types.Profile) (facts *types.FunFacts, err error) {
	if profile == nil {
		return nil, &RequiredError{Field: "selectedProfile"}
	}
	researcher, canResearch := s.search.(search.Researcher)
	ctx, op := s.start(ctx, "fun_facts",
		attribute.String("profile", profile.Name),
		attribute.Bool("research_task", canResearch),
	)
	defer func() { op.End(ctx, err) }()

	profilePrompt, err := ProfilePrompt(profile)
	if err != nil {
		return nil, fail(MsgFunFacts, err)
	}
	slog.DebugContext(ctx, "built profile prompt", "chars", len(profilePrompt))

	var raw string
	if canResearch {
		raw, err = s.researchFunFacts(ctx, researcher, profilePrompt)
	} else {
		raw, err = s.generateFunFacts(ctx, profilePrompt)
	}
	if err != nil {
		slog.ErrorContext(ctx, "fun facts failed", "profile", profile.Name, "error", err)
		return nil, fail(MsgFunFacts, err)
	}

	facts = &types.FunFacts{}
	if err = decodeValidated(schemas.FunFacts, raw, facts); err != nil {
		slog.WarnContext(ctx, "fun facts output rejected", "error", err)
		return nil, fail(MsgFunFacts, err)
	}
	return facts, nil
}

func (s *Service) researchFunFacts(ctx context.Context, researcher search.Researcher, profilePrompt string) (string, error) {
	instructions, err := prompts.Render(prompts.KeyFunFactsResearch, map[string]string{"ProfilePrompt": profilePrompt})
	if err != nil {
		return "", err
	}
	data, err := researcher.Research(ctx, search.ResearchTask{
		Instructions: instructions,
		Schema:       s.funFactsSchema.Definition,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Service) generateFunFacts(ctx context.Context, profilePrompt string) (string, error) {
	prompt, err := prompts.Render(prompts.KeyFunFactsLLM, map[string]string{"ProfilePrompt": profilePrompt})
	if err != nil {
		return "", err
	}
	raw, err := s.llm.GenerateStructured(ctx, prompt, s.funFactsSchema, llm.TierStandard)
	if err != nil {
		return "", err
	}
	return llm.CleanJSONBlock(raw), nil
}

// decodeValidated validates doc against an embedded schema and decodes it into v.
func decodeValidated(schema, doc string, v any) error {
	if err := schemas.ValidateEmbedded(schema, doc); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(doc), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", schema, err)
	}
	return nil
}
