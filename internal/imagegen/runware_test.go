package imagegen

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *RunwareClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &RunwareClient{
		http:   resty.New().SetBaseURL(srv.URL),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunware_ReturnsFirstImageURL(t *testing.T) {
	var gotTasks []inferenceTask
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotTasks))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"imageURL": "https://img.example/one.png"}},
		})
	})

	url, err := client.Generate(context.Background(), "a red fox in the snow")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/one.png", url)

	require.Len(t, gotTasks, 1)
	task := gotTasks[0]
	assert.Equal(t, "imageInference", task.TaskType)
	assert.NotEmpty(t, task.TaskUUID)
	assert.Contains(t, task.PositivePrompt, "a red fox in the snow")
	assert.Contains(t, task.PositivePrompt, "masterpiece")
	assert.Equal(t, negativePrompt, task.NegativePrompt)
	assert.Equal(t, 7, task.CFGScale)
	assert.Equal(t, 1024, task.Width)
	assert.Equal(t, 768, task.Height)
	assert.Equal(t, 1, task.NumberResults)
}

func TestRunware_EmptyResultIsNotAnError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})

	url, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestRunware_HTTPErrorSurfaces(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	})

	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
}
