// Package prompts provides a loader for externalized LLM prompt templates.
// Prompts are stored as JSON files and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// ResearchFile holds every prompt used by the person research operations.
const ResearchFile = "research.json"

// Keys in ResearchFile
const (
	KeySummary               = "summary"
	KeyRoast                 = "roast"
	KeyPraise                = "praise"
	KeyCareer                = "career"
	KeyFunFactsResearch      = "fun-facts-research"
	KeyFunFactsLLM           = "fun-facts-llm"
	KeyContextPrompt         = "context-prompt"
	KeyProfilePrompt         = "profile-prompt"
	KeyLinkedInSummaryQuery  = "linkedin-summary-query"
	KeyWikipediaSummaryQuery = "wikipedia-summary-query"
	KeySimilarSummaryQuery   = "similar-summary-query"
)

// ResearchKeys lists every key the research operations load from ResearchFile.
func ResearchKeys() []string {
	return []string{
		KeySummary, KeyRoast, KeyPraise, KeyCareer,
		KeyFunFactsResearch, KeyFunFactsLLM,
		KeyContextPrompt, KeyProfilePrompt,
		KeyLinkedInSummaryQuery, KeyWikipediaSummaryQuery, KeySimilarSummaryQuery,
	}
}

var placeholderPattern = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// MissingPlaceholderError is returned by Render when data lacks a value for
// a placeholder of the template.
type MissingPlaceholderError struct {
	Key     string
	Missing []string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("prompt %q is missing values for %s", e.Key, strings.Join(e.Missing, ", "))
}

// cache stores parsed prompt files to avoid repeated JSON parsing
var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get retrieves a prompt by filename and key.
// The filename should not include the path (e.g., "research.json").
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	return prompt, nil
}

// MustGet retrieves a prompt by filename and key, panicking if not found.
// Use this for prompts that are required at initialization time.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Render loads a prompt from ResearchFile and fills in its placeholders.
// Every placeholder must have an entry in data, even if it is empty.
func Render(key string, data map[string]string) (string, error) {
	template, err := Get(ResearchFile, key)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, name := range Placeholders(template) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &MissingPlaceholderError{Key: key, Missing: missing}
	}

	return Format(template, data), nil
}

// Placeholders returns the sorted, distinct placeholder names of a template.
func Placeholders(template string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	sort.Strings(names)
	return names
}

// Format replaces {{.Key}} placeholders with values from data in a single pass,
// so substituted values are never themselves expanded. Unknown placeholders are left as-is.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	if prompts, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return prompts, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}

// ClearCache clears the prompt cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}

// List returns all available prompt keys in a file, sorted.
func List(filename string) ([]string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
