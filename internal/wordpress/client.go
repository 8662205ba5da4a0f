// Package wordpress is the publishing target client: category lookup,
// media upload and post creation over the WP REST API with basic auth.
package wordpress

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yudhis/autopress/internal/retry"
)

// Client wraps the WordPress REST surface the pipeline needs.
type Client struct {
	http     *resty.Client
	download *resty.Client // no auth; fetches image bytes from arbitrary hosts
	retryCfg retry.Config
	logger   *slog.Logger
}

func New(baseURL, user, password string, timeout time.Duration, retryCfg retry.Config, logger *slog.Logger) *Client {
	api := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetBasicAuth(user, password).
		SetTimeout(timeout)

	return &Client{
		http:     api,
		download: resty.New().SetTimeout(timeout),
		retryCfg: retryCfg,
		logger:   logger,
	}
}

type category struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
}

// CategoryID resolves a slug to the numeric category id. A zero id with a
// nil error means no category matched; callers must not publish then.
func (c *Client) CategoryID(ctx context.Context, slug string) (int, error) {
	var cats []category
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("slug", slug).
		SetResult(&cats).
		Get("/wp-json/wp/v2/categories")
	if err != nil {
		return 0, fmt.Errorf("fetch category %q: %w", slug, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("fetch category %q: status %d: %s", slug, resp.StatusCode(), resp.String())
	}

	if len(cats) == 0 {
		return 0, nil
	}
	return cats[0].ID, nil
}

type mediaResponse struct {
	ID int `json:"id"`
}

// UploadMediaFromURL downloads the image and uploads it to the media
// endpoint, returning the media id.
func (c *Client) UploadMediaFromURL(ctx context.Context, imageURL, filename string) (int, error) {
	img, err := c.download.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return 0, fmt.Errorf("download image: %w", err)
	}
	if img.IsError() {
		return 0, fmt.Errorf("download image: status %d", img.StatusCode())
	}

	var media mediaResponse
	upload := func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetFileReader("file", filename, bytes.NewReader(img.Body())).
			SetResult(&media).
			Post("/wp-json/wp/v2/media")
		if err != nil {
			return fmt.Errorf("upload media: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("upload media: status %d: %s", resp.StatusCode(), resp.String())
		}
		return nil
	}
	if err := retry.Do(ctx, c.retryCfg, upload); err != nil {
		return 0, err
	}

	c.logger.Debug("media uploaded", "id", media.ID, "filename", filename)
	return media.ID, nil
}

// PostInput is everything needed to create the remote post.
type PostInput struct {
	Title           string
	Content         string
	CategoryID      int
	MediaID         int // 0 = no featured image
	MetaDescription string
	Keywords        []string
}

// PostResult is the published post's identity.
type PostResult struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// CreatePost publishes the post with status "publish" and Yoast SEO meta.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (*PostResult, error) {
	payload := map[string]any{
		"title":      in.Title,
		"content":    in.Content,
		"status":     "publish",
		"categories": []int{in.CategoryID},
		"meta": map[string]string{
			"_yoast_wpseo_metadesc": in.MetaDescription,
			"_yoast_wpseo_focuskw":  strings.Join(in.Keywords, ", "),
		},
	}
	if in.MediaID > 0 {
		payload["featured_media"] = in.MediaID
	}

	var result PostResult
	create := func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(payload).
			SetResult(&result).
			Post("/wp-json/wp/v2/posts")
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("create post: status %d: %s", resp.StatusCode(), resp.String())
		}
		return nil
	}
	if err := retry.Do(ctx, c.retryCfg, create); err != nil {
		return nil, err
	}

	return &result, nil
}
