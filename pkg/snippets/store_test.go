package snippets_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/snippets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *snippets.Store {
	t.Helper()
	return snippets.NewStore(filepath.Join(t.TempDir(), "clipboard_jdoe.json"), nil)
}

func TestStore_ReadMissingFile(t *testing.T) {
	clips, err := newStore(t).Read()
	require.NoError(t, err)
	assert.Empty(t, clips)
}

func TestStore_ReadCorruptFile(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("]["), 0o644))

	_, err := s.Read()
	assert.Error(t, err)

	_, err = s.Lookup("anything")
	assert.Error(t, err)
}

func TestStore_Lookup(t *testing.T) {
	s := newStore(t)
	long := "Please confirm all camera feeds are recording"
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"clips": [
		{"title": "Radio script", "content": "Control to all posts, radio check."},
		{"content": "`+long+`", "pinned": true}
	]}`), 0o644))

	content, err := s.Lookup("Radio script")
	require.NoError(t, err)
	assert.Equal(t, "Control to all posts, radio check.", content)

	content, err = s.Lookup(long[:30] + "...")
	require.NoError(t, err)
	assert.Equal(t, long, content)

	_, err = s.Lookup("Missing")
	assert.ErrorIs(t, err, snippets.ErrNotFound)
}

func TestStore_ListPinnedFirst(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Add(models.Snippet{Title: "a", Content: "1"}))
	require.NoError(t, s.Add(models.Snippet{Title: "b", Content: "2", Pinned: true}))
	require.NoError(t, s.Add(models.Snippet{Title: "c", Content: "3"}))

	assert.Equal(t, []string{"b", "a", "c"}, s.Titles())
}

func TestStore_AddRejectsEmptyContent(t *testing.T) {
	s := newStore(t)
	assert.ErrorIs(t, s.Add(models.Snippet{Title: "x", Content: "  "}), snippets.ErrEmptyContent)
}

func TestStore_UpdatePinDelete(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Add(models.Snippet{Title: "a", Content: "1"}))
	require.NoError(t, s.Add(models.Snippet{Title: "b", Content: "2"}))

	listed, err := s.List()
	require.NoError(t, err)
	ref := listed[1].Ref

	require.NoError(t, s.TogglePin(ref))
	clips, err := s.Read()
	require.NoError(t, err)
	assert.True(t, clips[1].Pinned)

	// the ref captured before the pin is stale now
	assert.ErrorIs(t, s.Delete(ref), snippets.ErrNotFound)

	listed, err = s.List()
	require.NoError(t, err)
	require.Equal(t, "b", listed[0].Snippet.Title)

	require.NoError(t, s.Update(listed[0].Ref, models.Snippet{Title: "b2", Content: "22", Pinned: true}))
	listed, err = s.List()
	require.NoError(t, err)
	require.NoError(t, s.Delete(listed[0].Ref))

	clips, err = s.Read()
	require.NoError(t, err)
	assert.Equal(t, []models.Snippet{{Title: "a", Content: "1"}}, clips)
}
