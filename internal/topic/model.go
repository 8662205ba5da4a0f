package topic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/yudhis/autopress/internal/storage"
)

// ModelSource implements the model-search strategy: a single chat call to a
// web-search capable model, with every used title passed as an exclusion
// list. The exclusion is advisory, so the returned title is re-checked
// against the store before it is accepted.
type ModelSource struct {
	client   *openai.Client
	model    string
	query    string
	language string
	store    storage.TitleStore
	logger   *slog.Logger
	now      func() time.Time
}

var _ Source = (*ModelSource)(nil)

func NewModelSource(client *openai.Client, model, query, language string, store storage.TitleStore, logger *slog.Logger) *ModelSource {
	return &ModelSource{
		client:   client,
		model:    model,
		query:    query,
		language: language,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

func (m *ModelSource) Pick(ctx context.Context) (*Candidate, error) {
	prompt := m.buildPrompt()

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("topic search request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("topic search returned no choices")
	}

	candidate, err := parseModelResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	if m.store.Contains(candidate.Title) {
		return nil, fmt.Errorf("%w: model returned already used title %q", ErrExhaustedCandidates, candidate.Title)
	}

	m.logger.Info("topic candidate selected", "title", candidate.Title, "source", candidate.SourceURL)
	return candidate, nil
}

func (m *ModelSource) buildPrompt() string {
	day := m.now()
	var b strings.Builder

	if m.language == "en" {
		if m.query != "" {
			fmt.Fprintf(&b, "Find one of today's trending news articles about %s, dated %s.\n\n", m.query, day.Format("2 January 2006"))
		} else {
			fmt.Fprintf(&b, "Give me 1 random piece of recent news from %s.\n\n", day.Format("2 January 2006"))
		}
		b.WriteString("Return the result as an array of objects with these properties:\n")
	} else {
		if m.query != "" {
			fmt.Fprintf(&b, "Ambil artikel terbaru yang sesuai dengan salah satu tren tentang %s pada %s.\n\n", m.query, formatDateID(day))
		} else {
			fmt.Fprintf(&b, "Berikan 1 berita terbaru random pada %s.\n\n", formatDateID(day))
		}
		b.WriteString("Berikan hasil dalam bentuk array of objects dengan properti berikut:\n")
	}

	b.WriteString(`[
  {
    "judul": string,
    "artikel": string,
    "source": string
  }
]
`)

	if titles := m.store.Titles(); len(titles) > 0 {
		if m.language == "en" {
			b.WriteString("\nNever pick a story matching any of these already published titles:\n")
		} else {
			b.WriteString("\nJangan pilih berita yang sama dengan judul-judul yang sudah terbit berikut:\n")
		}
		for _, t := range titles {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}

	if m.language == "en" {
		b.WriteString("\nThe answer must be valid JSON only, no markdown fences or extra characters.")
	} else {
		b.WriteString("\nPastikan jawaban hanya JSON valid (tanpa karakter tambahan seperti ```json atau karakter apapun lainnya) agar dapat langsung di-parse.")
	}

	return b.String()
}

var monthsID = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

func formatDateID(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthsID[t.Month()-1], t.Year())
}

// modelItem accepts both the Indonesian keys the prompt asks for and their
// English equivalents, which some models emit anyway.
type modelItem struct {
	Judul   string `json:"judul"`
	Title   string `json:"title"`
	Artikel string `json:"artikel"`
	Article string `json:"article"`
	Source  string `json:"source"`
}

func parseModelResponse(raw string) (*Candidate, error) {
	raw = stripCodeFences(raw)

	var items []modelItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// Some models return a single object instead of an array.
		var single modelItem
		if err2 := json.Unmarshal([]byte(raw), &single); err2 != nil {
			return nil, fmt.Errorf("parse topic search response: %w", err)
		}
		items = []modelItem{single}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("topic search response contained no items")
	}

	item := items[0]
	title := firstNonEmpty(item.Judul, item.Title)
	body := firstNonEmpty(item.Artikel, item.Article)
	if title == "" || body == "" {
		return nil, fmt.Errorf("topic search response missing title or article")
	}

	return &Candidate{
		Title:     strings.TrimSpace(title),
		Body:      strings.TrimSpace(body),
		SourceURL: strings.TrimSpace(item.Source),
	}, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
