// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap breaks text into lines of at most width runes on word boundaries
func wrap(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(word)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// writeProfiles appends a numbered profile list to sb
func writeProfiles(sb *strings.Builder, profiles []types.Profile) {
	count := min(len(profiles), maxItemsToShow)
	for i := 0; i < count; i++ {
		profile := profiles[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, profile.Name))
		if profile.Headline != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", profile.Headline))
		}
		sb.WriteString(fmt.Sprintf("    %s\n", profile.URL))
	}
	if len(profiles) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(profiles)-maxItemsToShow))
	}
}

// PrintProfiles outputs the profile candidates found for a query.
func (p *Printer) PrintProfiles(title string, profiles []types.Profile) {
	var sb strings.Builder
	if len(profiles) == 0 {
		sb.WriteString("No profiles found")
	} else {
		writeProfiles(&sb, profiles)
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs LinkedIn and Wikipedia candidates along with any
// source that failed.
func (p *Printer) PrintCandidates(candidates *types.ProfileCandidates) {
	if candidates == nil {
		return
	}
	p.PrintProfiles("LINKEDIN PROFILES", candidates.LinkedIn)
	p.PrintProfiles("WIKIPEDIA PROFILES", candidates.Wikipedia)
	p.PrintErrors(candidates.Errors)
}

// PrintSearchResults outputs web search hits.
func (p *Printer) PrintSearchResults(results []search.Result) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d results:\n\n", len(results)))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		result := results[i]
		sb.WriteString(fmt.Sprintf("• %s\n", result.Title))
		sb.WriteString(fmt.Sprintf("  %s\n", result.URL))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more results", len(results)-maxItemsToShow))
	}

	p.printBox("WEB SEARCH RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintText outputs a prose section such as the summary or roast.
func (p *Printer) PrintText(title, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrap(paragraph, boxWidth-4)...)
		lines = append(lines, "")
	}
	p.printBox(title, strings.Join(lines[:len(lines)-1], "\n"))
}

// PrintCareer outputs the skills and career timeline.
func (p *Printer) PrintCareer(career *types.Career) {
	if career == nil {
		return
	}

	var sb strings.Builder
	if len(career.Skills) > 0 {
		sb.WriteString("Skills:\n")
		for _, line := range wrap(strings.Join(career.Skills, ", "), boxWidth-6) {
			sb.WriteString(fmt.Sprintf("  %s\n", line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Timeline:\n")
	for _, event := range career.Timeline {
		sb.WriteString(fmt.Sprintf("  • %s (%s)\n", event.Title, event.DateRange))
	}

	p.printBox("CAREER", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFunFacts outputs fun facts with their sources.
func (p *Printer) PrintFunFacts(facts []types.FunFact) {
	if len(facts) == 0 {
		return
	}

	var sb strings.Builder
	for i, fact := range facts {
		for j, line := range wrap(fact.Fact, boxWidth-6) {
			prefix := "  "
			if j == 0 {
				prefix = "• "
			}
			sb.WriteString(prefix + line + "\n")
		}
		if fact.Source != "" {
			sb.WriteString(fmt.Sprintf("  (%s)\n", fact.Source))
		}
		if i < len(facts)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("FUN FACTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintErrors outputs failed sections, sorted by name.
func (p *Printer) PrintErrors(errs map[string]string) {
	if len(errs) == 0 {
		return
	}

	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", name))
		sb.WriteString(fmt.Sprintf("  %s\n", errs[name]))
	}

	p.printBox("FAILED SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSectionEvent outputs a one-line status for a settled dossier section.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSectionEvent(event types.SectionEvent) {
	if event.Error != "" {
		fmt.Fprintf(p.out, "✗ %-10s %s\n", event.Section, truncate(event.Error, boxWidth))
		return
	}
	fmt.Fprintf(p.out, "✓ %s\n", event.Section)
}

// PrintDossier outputs every populated section of a dossier.
func (p *Printer) PrintDossier(d *types.Dossier) {
	if d == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", d.Profile.Name))
	if d.Profile.Headline != "" {
		sb.WriteString(fmt.Sprintf("Headline: %s\n", d.Profile.Headline))
	}
	sb.WriteString(fmt.Sprintf("Profile:  %s\n", d.Profile.URL))
	sb.WriteString(fmt.Sprintf("Query:    %s", d.SearchQuery))
	p.printBox("DOSSIER", sb.String())

	p.PrintText("SUMMARY", d.Summary)
	p.PrintFunFacts(d.FunFacts)
	p.PrintCareer(d.Career)
	p.PrintText("ROAST", d.Roast)
	p.PrintText("PRAISE", d.Praise)
	if len(d.Similar) > 0 {
		p.PrintProfiles("SIMILAR PEOPLE", d.Similar)
	}
	p.PrintErrors(d.Errors)
}
