package rewrite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/yudhis/autopress/internal/topic"
)

const blogPostFunction = "generate_blog_post"

// OpenAIRewriter asks an OpenAI chat model for the post through a forced
// function call, so the output arrives as schema-bound JSON arguments.
type OpenAIRewriter struct {
	client       *openai.Client
	model        string
	language     string
	allowedSlugs []string
	logger       *slog.Logger
}

var _ Rewriter = (*OpenAIRewriter)(nil)

func NewOpenAIRewriter(client *openai.Client, model, language string, allowedSlugs []string, logger *slog.Logger) *OpenAIRewriter {
	return &OpenAIRewriter{
		client:       client,
		model:        model,
		language:     language,
		allowedSlugs: allowedSlugs,
		logger:       logger,
	}
}

func (r *OpenAIRewriter) Rewrite(ctx context.Context, candidate *topic.Candidate) (*Post, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage(r.language)},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(r.language, candidate, r.allowedSlugs)},
		},
		Functions: []openai.FunctionDefinition{
			{
				Name:       blogPostFunction,
				Parameters: r.schema(),
			},
		},
		FunctionCall: openai.FunctionCall{Name: blogPostFunction},
	})
	if err != nil {
		return nil, fmt.Errorf("rewrite request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("rewrite returned no choices")
	}

	call := resp.Choices[0].Message.FunctionCall
	if call == nil || call.Name != blogPostFunction {
		return nil, &SchemaError{Field: "(function_call)", Reason: "is missing from the model response"}
	}

	post, err := parsePostPayload([]byte(call.Arguments), r.allowedSlugs)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("rewrite complete", "title", post.Title, "slug", post.CategorySlug, "content_len", len(post.Content))
	return post, nil
}

func (r *OpenAIRewriter) schema() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"title":            {Type: jsonschema.String},
			"content":          {Type: jsonschema.String},
			"slug":             {Type: jsonschema.String, Enum: r.allowedSlugs},
			"meta_description": {Type: jsonschema.String},
			"keywords": {
				Type:  jsonschema.Array,
				Items: &jsonschema.Definition{Type: jsonschema.String},
			},
			"image_prompt":    {Type: jsonschema.String},
			"focus_keyphrase": {Type: jsonschema.String},
			"image_alt_text":  {Type: jsonschema.String},
		},
		Required: payloadFields,
	}
}
