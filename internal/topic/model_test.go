package topic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelResponse(t *testing.T) {
	t.Run("plain array", func(t *testing.T) {
		c, err := parseModelResponse(`[{"judul":"Topic X","artikel":"the body","source":"https://src"}]`)
		require.NoError(t, err)
		assert.Equal(t, "Topic X", c.Title)
		assert.Equal(t, "the body", c.Body)
		assert.Equal(t, "https://src", c.SourceURL)
	})

	t.Run("markdown fences are stripped", func(t *testing.T) {
		c, err := parseModelResponse("```json\n[{\"judul\":\"Topic X\",\"artikel\":\"body\",\"source\":\"\"}]\n```")
		require.NoError(t, err)
		assert.Equal(t, "Topic X", c.Title)
	})

	t.Run("single object instead of array", func(t *testing.T) {
		c, err := parseModelResponse(`{"title":"Topic Y","article":"body text","source":"https://y"}`)
		require.NoError(t, err)
		assert.Equal(t, "Topic Y", c.Title)
		assert.Equal(t, "body text", c.Body)
	})

	t.Run("english keys accepted", func(t *testing.T) {
		c, err := parseModelResponse(`[{"title":"Topic Z","article":"z body","source":""}]`)
		require.NoError(t, err)
		assert.Equal(t, "Topic Z", c.Title)
	})

	t.Run("missing article is rejected", func(t *testing.T) {
		_, err := parseModelResponse(`[{"judul":"Topic X","source":"https://src"}]`)
		require.Error(t, err)
	})

	t.Run("not JSON is rejected", func(t *testing.T) {
		_, err := parseModelResponse("Here is today's news: Topic X")
		require.Error(t, err)
	})
}

func fakeOpenAI(t *testing.T, content string) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func TestModelSource_PickReturnsFreshCandidate(t *testing.T) {
	client := fakeOpenAI(t, `[{"judul":"Topic X","artikel":"article body","source":"https://src"}]`)
	store := newStore(t, "Topic A")

	src := NewModelSource(client, "test-model", "", "id", store, testLogger())

	candidate, err := src.Pick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Topic X", candidate.Title)
}

func TestModelSource_RejectsAlreadyUsedTitle(t *testing.T) {
	client := fakeOpenAI(t, `[{"judul":"Topic A","artikel":"article body","source":""}]`)
	store := newStore(t, "Topic A")

	src := NewModelSource(client, "test-model", "", "id", store, testLogger())

	_, err := src.Pick(context.Background())
	require.ErrorIs(t, err, ErrExhaustedCandidates)
}

func TestModelSource_PromptCarriesExclusionList(t *testing.T) {
	store := newStore(t, "Topic A", "Topic B")
	src := NewModelSource(nil, "test-model", "ai", "en", store, testLogger())

	prompt := src.buildPrompt()
	assert.Contains(t, prompt, "- Topic A")
	assert.Contains(t, prompt, "- Topic B")
	assert.Contains(t, prompt, "already published titles")
	assert.Contains(t, prompt, "ai")
}
