// Package imagegen renders a featured image for a post. Image failures are
// never fatal: callers proceed without an image.
package imagegen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	positivePrefix = "((masterpiece)),(best quality), high res, official art, ultra detailed, "
	negativePrompt = "nsfw, nudity, nude, nudes, sexy"
	runwareModel   = "runware:100@1"
)

// Generator produces a remote image URL for a prompt. An empty URL with a
// nil error means the service returned no result.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RunwareClient talks to the Runware inference API.
type RunwareClient struct {
	http   *resty.Client
	logger *slog.Logger
}

var _ Generator = (*RunwareClient)(nil)

func NewRunwareClient(apiKey string, timeout time.Duration, logger *slog.Logger) *RunwareClient {
	client := resty.New().
		SetBaseURL("https://api.runware.ai").
		SetAuthToken(apiKey).
		SetTimeout(timeout)

	return &RunwareClient{http: client, logger: logger}
}

type inferenceTask struct {
	TaskType       string `json:"taskType"`
	TaskUUID       string `json:"taskUUID"`
	IncludeCost    bool   `json:"includeCost"`
	PositivePrompt string `json:"positivePrompt"`
	NegativePrompt string `json:"negativePrompt"`
	CFGScale       int    `json:"CFGScale"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Steps          int    `json:"steps"`
	ModelID        string `json:"modelId"`
	NumberResults  int    `json:"numberResults"`
}

type inferenceResponse struct {
	Data []struct {
		ImageURL string `json:"imageURL"`
	} `json:"data"`
}

// Generate submits one inference task and returns the first image URL.
func (c *RunwareClient) Generate(ctx context.Context, prompt string) (string, error) {
	task := inferenceTask{
		TaskType:       "imageInference",
		TaskUUID:       uuid.NewString(),
		IncludeCost:    true,
		PositivePrompt: positivePrefix + prompt,
		NegativePrompt: negativePrompt,
		CFGScale:       7,
		Width:          1024,
		Height:         768,
		Steps:          4,
		ModelID:        runwareModel,
		NumberResults:  1,
	}

	var out inferenceResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody([]inferenceTask{task}).
		SetResult(&out).
		Post("/v1")
	if err != nil {
		return "", fmt.Errorf("image inference request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("image inference failed: status %d: %s", resp.StatusCode(), resp.String())
	}

	if len(out.Data) == 0 || out.Data[0].ImageURL == "" {
		c.logger.Warn("image service returned no result", "task", task.TaskUUID)
		return "", nil
	}

	return out.Data[0].ImageURL, nil
}
