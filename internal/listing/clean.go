// Package listing cleans internship listings before they are stored.
package listing

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/internradar/internal/types"
)

// blockSelectors end a line of text when they close
const blockSelectors = "p, div, section, article, li, ul, ol, tr, h1, h2, h3, h4, h5, h6, blockquote, pre"

// noiseSelectors never carry listing text
const noiseSelectors = "script, style, noscript, iframe, template"

// CleanDescription reduces an HTML description to plain text. Text without
// markup only has its whitespace normalized.
func CleanDescription(description string) (string, error) {
	if !strings.ContainsAny(description, "<&") {
		return cleanWhitespace(description), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return "", fmt.Errorf("failed to parse description HTML: %w", err)
	}

	doc.Find(noiseSelectors).Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("- ")
	doc.Find(blockSelectors).AppendHtml("\n")

	return cleanWhitespace(doc.Find("body").Text()), nil
}

// cleanWhitespace collapses runs of spaces within lines and drops blank lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// Normalize trims a listing, cleans its description and de-duplicates its
// tags and tech stack case-insensitively, keeping the first spelling seen.
func Normalize(req *types.CreateInternshipRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Company = strings.TrimSpace(req.Company)
	req.Location = strings.TrimSpace(req.Location)
	req.Stipend = strings.TrimSpace(req.Stipend)
	req.Duration = strings.TrimSpace(req.Duration)
	req.ApplyLink = strings.TrimSpace(req.ApplyLink)

	description, err := CleanDescription(req.Description)
	if err != nil {
		return err
	}
	req.Description = description

	req.Tags = dedupe(req.Tags)
	req.TechStack = dedupe(req.TechStack)
	return nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
