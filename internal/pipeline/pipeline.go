// Package pipeline sequences one content-generation run: pick an unused
// topic, rewrite it into a structured post, optionally render an image,
// resolve the target category, publish. The duplicate store is consulted
// before topic selection and appended right after a successful rewrite.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yudhis/autopress/internal/imagegen"
	"github.com/yudhis/autopress/internal/metrics"
	"github.com/yudhis/autopress/internal/rewrite"
	"github.com/yudhis/autopress/internal/storage"
	"github.com/yudhis/autopress/internal/topic"
	"github.com/yudhis/autopress/internal/wordpress"
)

// Stage names the pipeline states a run moves through.
type Stage string

const (
	StageSelectingTopic    Stage = "selecting_topic"
	StageRewriting         Stage = "rewriting"
	StageIllustrating      Stage = "illustrating"
	StageResolvingCategory Stage = "resolving_category"
	StagePublishing        Stage = "publishing"
	StageDone              Stage = "done"
)

// ErrCategoryNotFound means the publishing target has no category for the
// generated slug. Publishing never proceeds with a guessed category.
var ErrCategoryNotFound = errors.New("category not found on publishing target")

// PublishError wraps a failed post-creation call. Terminal, reported, never
// retried within the run.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string { return fmt.Sprintf("publish failed: %v", e.Err) }
func (e *PublishError) Unwrap() error { return e.Err }

// Publisher is the slice of the publishing target the pipeline needs.
type Publisher interface {
	CategoryID(ctx context.Context, slug string) (int, error)
	UploadMediaFromURL(ctx context.Context, imageURL, filename string) (int, error)
	CreatePost(ctx context.Context, in wordpress.PostInput) (*wordpress.PostResult, error)
}

// Result is the human-readable trace of one run. Degraded image outcomes
// land in Warnings instead of aborting the run.
type Result struct {
	Title        string
	CategorySlug string
	CategoryID   int
	ImageURL     string
	MediaID      int
	PostID       int
	PostURL      string
	FailedStage  Stage
	Warnings     []string
}

// Deps wires the collaborators. Illustrator may be nil (image generation
// disabled).
type Deps struct {
	Store          storage.TitleStore
	Source         topic.Source
	Rewriter       rewrite.Rewriter
	Illustrator    imagegen.Generator
	Publisher      Publisher
	Logger         *slog.Logger
	ForcedCategory string // overrides the generated slug when set
}

// Pipeline executes one article per run, strictly sequentially.
type Pipeline struct {
	store          storage.TitleStore
	source         topic.Source
	rewriter       rewrite.Rewriter
	illustrator    imagegen.Generator
	publisher      Publisher
	logger         *slog.Logger
	forcedCategory string
}

func New(deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:          deps.Store,
		source:         deps.Source,
		rewriter:       deps.Rewriter,
		illustrator:    deps.Illustrator,
		publisher:      deps.Publisher,
		logger:         logger,
		forcedCategory: deps.ForcedCategory,
	}
}

// Run executes a single run to completion. A non-nil error aborts the run
// only; the Result always reports how far the run got.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	candidate, err := p.source.Pick(ctx)
	if err != nil {
		return p.fail(res, StageSelectingTopic, fmt.Errorf("select topic: %w", err))
	}

	post, err := p.rewriter.Rewrite(ctx, candidate)
	if err != nil {
		return p.fail(res, StageRewriting, fmt.Errorf("rewrite %q: %w", candidate.Title, err))
	}
	res.Title = post.Title

	// The topic is consumed once its article text is generated; a later
	// failure must not cause the same topic to be re-selected.
	if err := p.store.Add(ctx, post.Title); err != nil {
		return p.fail(res, StageRewriting, fmt.Errorf("record used title %q: %w", post.Title, err))
	}

	p.illustrate(ctx, post, res)

	slug := post.CategorySlug
	if p.forcedCategory != "" {
		slug = p.forcedCategory
	}
	res.CategorySlug = slug

	categoryID, err := p.publisher.CategoryID(ctx, slug)
	if err != nil {
		return p.fail(res, StageResolvingCategory, fmt.Errorf("resolve category %q: %w", slug, err))
	}
	if categoryID == 0 {
		return p.fail(res, StageResolvingCategory, fmt.Errorf("%w: slug %q", ErrCategoryNotFound, slug))
	}
	res.CategoryID = categoryID

	if err := p.publish(ctx, post, res); err != nil {
		return p.fail(res, StagePublishing, err)
	}

	res.FailedStage = StageDone
	p.logger.Info("run complete",
		"title", res.Title, "category", res.CategorySlug, "category_id", res.CategoryID,
		"post_id", res.PostID, "link", res.PostURL, "image", res.ImageURL != "")
	return res, nil
}

// illustrate never fails the run; any problem downgrades to a warning.
func (p *Pipeline) illustrate(ctx context.Context, post *rewrite.Post, res *Result) {
	if p.illustrator == nil || post.ImagePrompt == "" {
		return
	}

	url, err := p.illustrator.Generate(ctx, post.ImagePrompt)
	if err != nil {
		p.warn(res, fmt.Sprintf("image generation failed: %v", err))
		return
	}
	if url == "" {
		p.warn(res, "image service returned no result")
		return
	}

	res.ImageURL = url
	metrics.Global.ImageGenerated()
}

func (p *Pipeline) publish(ctx context.Context, post *rewrite.Post, res *Result) error {
	if res.ImageURL != "" {
		mediaID, err := p.publisher.UploadMediaFromURL(ctx, res.ImageURL, "featured-image.jpg")
		if err != nil {
			// Media upload errors are absorbed: the post still publishes,
			// just without a featured image.
			metrics.Global.MediaUploadFailed()
			p.warn(res, fmt.Sprintf("featured image upload failed: %v", err))
		} else {
			res.MediaID = mediaID
		}
	}

	created, err := p.publisher.CreatePost(ctx, wordpress.PostInput{
		Title:           post.Title,
		Content:         post.Content,
		CategoryID:      res.CategoryID,
		MediaID:         res.MediaID,
		MetaDescription: post.MetaDescription,
		Keywords:        post.Keywords,
	})
	if err != nil {
		return &PublishError{Err: err}
	}

	res.PostID = created.ID
	res.PostURL = created.Link
	return nil
}

func (p *Pipeline) fail(res *Result, stage Stage, err error) (*Result, error) {
	res.FailedStage = stage
	p.logger.Error("run failed", "stage", string(stage), "error", err)
	return res, err
}

func (p *Pipeline) warn(res *Result, msg string) {
	res.Warnings = append(res.Warnings, msg)
	p.logger.Warn(msg)
}
