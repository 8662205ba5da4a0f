package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// usedTitle is one record in the JSON file.
type usedTitle struct {
	Title  string    `json:"title"`
	UsedAt time.Time `json:"used_at"`
}

// FileStore keeps used titles in a single JSON file. The whole file is
// rewritten on every Add.
type FileStore struct {
	filePath string
	mu       sync.Mutex
	order    []usedTitle
	index    map[string]struct{}
}

var _ TitleStore = (*FileStore)(nil)

// NewFileStore loads the store from filePath. A missing, empty or unreadable
// file yields an empty store rather than an error.
func NewFileStore(filePath string) *FileStore {
	fs := &FileStore{
		filePath: filePath,
		index:    make(map[string]struct{}),
	}
	fs.load()
	return fs
}

func (fs *FileStore) load() {
	data, err := os.ReadFile(fs.filePath)
	if err != nil || len(data) == 0 {
		return
	}

	var items []usedTitle
	if err := json.Unmarshal(data, &items); err != nil {
		// Corrupt file: start empty, the next Add rewrites it.
		return
	}

	for _, item := range items {
		if _, seen := fs.index[item.Title]; seen {
			continue
		}
		fs.order = append(fs.order, item)
		fs.index[item.Title] = struct{}{}
	}
}

func (fs *FileStore) Contains(title string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, ok := fs.index[title]
	return ok
}

func (fs *FileStore) Add(_ context.Context, title string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.index[title]; !ok {
		fs.order = append(fs.order, usedTitle{Title: title, UsedAt: time.Now().UTC()})
		fs.index[title] = struct{}{}
	}

	return fs.persist()
}

// persist writes the full set; callers hold fs.mu.
func (fs *FileStore) persist() error {
	data, err := json.MarshalIndent(fs.order, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal used titles: %w", err)
	}

	if err := os.WriteFile(fs.filePath, data, 0644); err != nil {
		return fmt.Errorf("write used titles file: %w", err)
	}

	return nil
}

func (fs *FileStore) Titles() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	titles := make([]string, len(fs.order))
	for i, item := range fs.order {
		titles[i] = item.Title
	}
	return titles
}

func (fs *FileStore) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return len(fs.order)
}
