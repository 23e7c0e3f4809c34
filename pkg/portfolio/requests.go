package portfolio

import "strings"

// Request/Response DTOs

// SaveEntryRequest is the editor's save payload.
//
// A non-empty Additions list replaces Body with its composition. ImageData,
// when present, is stored as the entry thumbnail and overrides ImagePath.
type SaveEntryRequest struct {
	Kind       string  `json:"kind"`
	OriginalID string  `json:"originalId,omitempty"`
	Title      string  `json:"title"`
	About      string  `json:"about"`
	Body       string  `json:"body"`
	Additions  []Block `json:"additions,omitempty"`
	Tags       string  `json:"tags"`
	Category   string  `json:"category,omitempty"`
	Link       string  `json:"link,omitempty"`
	ImageAlt   string  `json:"imageAlt,omitempty"`
	ImagePath  string  `json:"imagePath,omitempty"`
	ImageData  string  `json:"imageData,omitempty"`
	ImageName  string  `json:"imageName,omitempty"`
}

// SaveEntryResult reports the persisted id and the collection file written.
type SaveEntryResult struct {
	Kind  Kind   `json:"kind"`
	ID    string `json:"id"`
	Title string `json:"title"`
	File  string `json:"file"`
}

// DeleteEntryRequest names the entry to remove
type DeleteEntryRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// DeleteEntryResult reports the removed id and the collection file written
type DeleteEntryResult struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
	File string `json:"file"`
}

// PublishRequest carries the optional commit message
type PublishRequest struct {
	Message string `json:"message,omitempty"`
}

// PreviewRequest carries the body to render. Additions, when present, take precedence.
type PreviewRequest struct {
	Kind      string  `json:"kind,omitempty"`
	Body      string  `json:"body"`
	Additions []Block `json:"additions,omitempty"`
}

// PreviewResult is the rendered HTML
type PreviewResult struct {
	Body string `json:"body"`
	HTML string `json:"html"`
}

// SplitTags parses a comma-separated tag list, dropping empty items.
func SplitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags renders tags in the comma-separated form the editor uses.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
