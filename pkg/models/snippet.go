package models

// Snippet is a titled piece of reusable text kept in the clipboard store
type Snippet struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned,omitempty"`
}

const snippetPreviewLen = 30

// DisplayTitle returns the title, or a short content preview for untitled snippets.
// Alerts link to snippets by this value.
func (s Snippet) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	runes := []rune(s.Content)
	if len(runes) <= snippetPreviewLen {
		return s.Content
	}
	return string(runes[:snippetPreviewLen]) + "..."
}
