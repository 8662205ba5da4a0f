package rewrite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yudhis/autopress/internal/topic"
)

// GeminiRewriter is the alternative backend: same prompt contract, output
// constrained by a Gemini response schema instead of a function call.
type GeminiRewriter struct {
	client       *genai.Client
	model        string
	language     string
	allowedSlugs []string
	logger       *slog.Logger
}

var _ Rewriter = (*GeminiRewriter)(nil)

func NewGeminiRewriter(ctx context.Context, apiKey, model, language string, allowedSlugs []string, logger *slog.Logger) (*GeminiRewriter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiRewriter{
		client:       client,
		model:        model,
		language:     language,
		allowedSlugs: allowedSlugs,
		logger:       logger,
	}, nil
}

func (r *GeminiRewriter) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

func (r *GeminiRewriter) Rewrite(ctx context.Context, candidate *topic.Candidate) (*Post, error) {
	model := r.client.GenerativeModel(r.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemMessage(r.language))},
	}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = r.schema()

	resp, err := model.GenerateContent(ctx, genai.Text(buildUserPrompt(r.language, candidate, r.allowedSlugs)))
	if err != nil {
		return nil, fmt.Errorf("rewrite request: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("rewrite returned no candidates")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, &SchemaError{Field: "(payload)", Reason: "is not a text part"}
	}

	post, err := parsePostPayload([]byte(text), r.allowedSlugs)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("rewrite complete", "title", post.Title, "slug", post.CategorySlug, "content_len", len(post.Content))
	return post, nil
}

func (r *GeminiRewriter) schema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":            {Type: genai.TypeString},
			"content":          {Type: genai.TypeString},
			"slug":             {Type: genai.TypeString, Enum: r.allowedSlugs},
			"meta_description": {Type: genai.TypeString},
			"keywords": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"image_prompt":    {Type: genai.TypeString},
			"focus_keyphrase": {Type: genai.TypeString},
			"image_alt_text":  {Type: genai.TypeString},
		},
		Required: payloadFields,
	}
}
