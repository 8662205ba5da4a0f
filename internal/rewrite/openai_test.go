package rewrite

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudhis/autopress/internal/topic"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCompletion serves a chat completion whose message carries the given
// function call (nil means a plain text reply).
func fakeCompletion(t *testing.T, call *openai.FunctionCall) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		msg := openai.ChatCompletionMessage{Role: "assistant", Content: "ok"}
		if call != nil {
			msg.Content = ""
			msg.FunctionCall = call
		}
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: msg}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func TestOpenAIRewriter_ParsesFunctionCall(t *testing.T) {
	args := marshal(t, validPayload())
	client := fakeCompletion(t, &openai.FunctionCall{Name: blogPostFunction, Arguments: string(args)})

	r := NewOpenAIRewriter(client, "test-model", "en", allowed, testLogger())
	post, err := r.Rewrite(context.Background(), &topic.Candidate{Title: "Topic X", Body: "body"})

	require.NoError(t, err)
	assert.Equal(t, "Topic X Rewritten", post.Title)
	assert.Equal(t, "tech", post.CategorySlug)
}

func TestOpenAIRewriter_MissingFunctionCallIsSchemaError(t *testing.T) {
	client := fakeCompletion(t, nil)

	r := NewOpenAIRewriter(client, "test-model", "en", allowed, testLogger())
	_, err := r.Rewrite(context.Background(), &topic.Candidate{Title: "Topic X", Body: "body"})

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestOpenAIRewriter_DisallowedSlugIsSchemaError(t *testing.T) {
	payload := validPayload()
	payload["slug"] = "politics"
	client := fakeCompletion(t, &openai.FunctionCall{Name: blogPostFunction, Arguments: string(marshal(t, payload))})

	r := NewOpenAIRewriter(client, "test-model", "en", allowed, testLogger())
	_, err := r.Rewrite(context.Background(), &topic.Candidate{Title: "Topic X", Body: "body"})

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "slug", schemaErr.Field)
}
