// Package rewrite turns a topic candidate into a publish-ready structured
// post via a language model constrained to a fixed output schema.
package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yudhis/autopress/internal/topic"
)

// Post is the schema-conformant rewrite output. Every field is required by
// the generation contract.
type Post struct {
	Title           string
	Content         string // HTML
	CategorySlug    string
	MetaDescription string
	Keywords        []string
	ImagePrompt     string
	FocusKeyphrase  string
	ImageAltText    string
}

// Rewriter converts one candidate into one structured post.
type Rewriter interface {
	Rewrite(ctx context.Context, candidate *topic.Candidate) (*Post, error)
}

// SchemaError reports rewrite output that violates the schema contract.
// It is terminal for the run; the publisher is never invoked after one.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("generation schema violation: field %q %s", e.Field, e.Reason)
}

const metaDescriptionMax = 160

// postPayload is the wire shape both backends request from the model.
type postPayload struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Slug            string   `json:"slug"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
	ImagePrompt     string   `json:"image_prompt"`
	FocusKeyphrase  string   `json:"focus_keyphrase"`
	ImageAltText    string   `json:"image_alt_text"`
}

var payloadFields = []string{
	"title", "content", "slug", "meta_description",
	"keywords", "image_prompt", "focus_keyphrase", "image_alt_text",
}

// parsePostPayload decodes raw model output and enforces the schema:
// every field present, keywords non-empty, slug within the allow-list.
func parsePostPayload(raw []byte, allowedSlugs []string) (*Post, error) {
	var p postPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &SchemaError{Field: "(payload)", Reason: fmt.Sprintf("is not valid JSON: %v", err)}
	}

	for field, value := range map[string]string{
		"title":            p.Title,
		"content":          p.Content,
		"slug":             p.Slug,
		"meta_description": p.MetaDescription,
		"image_prompt":     p.ImagePrompt,
		"focus_keyphrase":  p.FocusKeyphrase,
		"image_alt_text":   p.ImageAltText,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, &SchemaError{Field: field, Reason: "is missing or empty"}
		}
	}
	if len(p.Keywords) == 0 {
		return nil, &SchemaError{Field: "keywords", Reason: "is missing or empty"}
	}
	if !slugAllowed(p.Slug, allowedSlugs) {
		return nil, &SchemaError{Field: "slug", Reason: fmt.Sprintf("%q is outside the allow-list %v", p.Slug, allowedSlugs)}
	}

	meta := strings.TrimSpace(p.MetaDescription)
	if len(meta) > metaDescriptionMax {
		meta = meta[:metaDescriptionMax]
	}

	return &Post{
		Title:           strings.TrimSpace(p.Title),
		Content:         strings.TrimSpace(p.Content),
		CategorySlug:    strings.TrimSpace(p.Slug),
		MetaDescription: meta,
		Keywords:        p.Keywords,
		ImagePrompt:     strings.TrimSpace(p.ImagePrompt),
		FocusKeyphrase:  strings.TrimSpace(p.FocusKeyphrase),
		ImageAltText:    strings.TrimSpace(p.ImageAltText),
	}, nil
}

func slugAllowed(slug string, allowed []string) bool {
	for _, a := range allowed {
		if slug == a {
			return true
		}
	}
	return false
}
