// Package snippets manages the per-user clipboard snippets that alerts can
// link to by display title.
package snippets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/moby/sys/atomicwriter"
)

var (
	// ErrNotFound is returned when no snippet matches a title or ref
	ErrNotFound = errors.New("snippet not found")
	// ErrEmptyContent is returned when saving a snippet without content
	ErrEmptyContent = errors.New("snippet content is empty")
)

type clipsFile struct {
	Clips []models.Snippet `json:"clips"`
}

// Store reads and writes clipboard_<user>.json
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewStore creates a snippet store backed by path
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Read returns the snippets in stored order. A missing file is an empty store.
func (s *Store) Read() ([]models.Snippet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Snippet{}, nil
		}
		return nil, fmt.Errorf("read snippets: %w", err)
	}

	var file clipsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode snippets: %w", err)
	}
	if file.Clips == nil {
		file.Clips = []models.Snippet{}
	}
	return file.Clips, nil
}

// Lookup returns the content of the first snippet whose display title matches
func (s *Store) Lookup(title string) (string, error) {
	clips, err := s.Read()
	if err != nil {
		return "", err
	}
	for _, c := range clips {
		if c.DisplayTitle() == title {
			return c.Content, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, title)
}

// Titles returns the display titles in listing order
func (s *Store) Titles() []string {
	listed, err := s.List()
	if err != nil {
		s.logger.Warn("list snippets", "path", s.path, "error", err)
		return nil
	}
	titles := make([]string, 0, len(listed))
	for _, l := range listed {
		titles = append(titles, l.Snippet.DisplayTitle())
	}
	return titles
}

// Ref addresses a snippet by stored position; the snippet value guards
// against the file having changed underneath.
type Ref struct {
	Index   int
	Snippet models.Snippet
}

// Listed pairs a snippet with its Ref
type Listed struct {
	Ref     Ref
	Snippet models.Snippet
}

// List returns pinned snippets first, otherwise in stored order
func (s *Store) List() ([]Listed, error) {
	clips, err := s.Read()
	if err != nil {
		return nil, err
	}
	listed := make([]Listed, len(clips))
	for i, c := range clips {
		listed[i] = Listed{Ref: Ref{Index: i, Snippet: c}, Snippet: c}
	}
	sort.SliceStable(listed, func(i, j int) bool {
		return listed[i].Snippet.Pinned && !listed[j].Snippet.Pinned
	})
	return listed, nil
}

// Add appends a snippet
func (s *Store) Add(sn models.Snippet) error {
	if strings.TrimSpace(sn.Content) == "" {
		return ErrEmptyContent
	}
	return s.mutate(func(clips []models.Snippet) ([]models.Snippet, error) {
		return append(clips, sn), nil
	})
}

// Update replaces the referenced snippet
func (s *Store) Update(ref Ref, sn models.Snippet) error {
	if strings.TrimSpace(sn.Content) == "" {
		return ErrEmptyContent
	}
	return s.mutateAt(ref, func(clips []models.Snippet, i int) []models.Snippet {
		clips[i] = sn
		return clips
	})
}

// TogglePin flips the pinned flag of the referenced snippet
func (s *Store) TogglePin(ref Ref) error {
	return s.mutateAt(ref, func(clips []models.Snippet, i int) []models.Snippet {
		clips[i].Pinned = !clips[i].Pinned
		return clips
	})
}

// Delete removes the referenced snippet
func (s *Store) Delete(ref Ref) error {
	return s.mutateAt(ref, func(clips []models.Snippet, i int) []models.Snippet {
		return append(clips[:i], clips[i+1:]...)
	})
}

func (s *Store) mutateAt(ref Ref, fn func(clips []models.Snippet, i int) []models.Snippet) error {
	return s.mutate(func(clips []models.Snippet) ([]models.Snippet, error) {
		if ref.Index < 0 || ref.Index >= len(clips) || clips[ref.Index] != ref.Snippet {
			return nil, ErrNotFound
		}
		return fn(clips, ref.Index), nil
	})
}

func (s *Store) mutate(fn func(clips []models.Snippet) ([]models.Snippet, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clips, err := s.Read()
	if err != nil {
		return err
	}
	clips, err = fn(clips)
	if err != nil {
		return err
	}
	return s.write(clips)
}

func (s *Store) write(clips []models.Snippet) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(clipsFile{Clips: clips}); err != nil {
		return fmt.Errorf("encode snippets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snippets directory: %w", err)
	}
	if err := atomicwriter.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snippets: %w", err)
	}
	return nil
}
