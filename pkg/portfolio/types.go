package portfolio

import (
	"fmt"
	"strings"
)

// Kind is the content type a collection holds.
type Kind string

// Kind constants (typed).
const (
	KindArticle Kind = "article"
	KindProject Kind = "project"
	KindNote    Kind = "note"
)

// DefaultKind is used when a request does not name a kind.
const DefaultKind = KindArticle

// Defaults applied to saved entries.
const (
	DefaultLink          = "#"
	DefaultCategory      = "Technical"
	DefaultThumbnailName = "thumbnail"
	DefaultInlineImage   = "inline-image"
)

// Body keys used in the persisted JSON rows.
const (
	bodyKeyContent = "content"
	bodyKeyDetails = "details"
)

// Kinds returns every recognized kind in display order.
func Kinds() []Kind {
	return []Kind{KindArticle, KindProject, KindNote}
}

// IsValid reports whether k is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindArticle, KindProject, KindNote:
		return true
	default:
		return false
	}
}

// ParseKind normalizes s and checks it against the recognized kinds.
// An empty string yields DefaultKind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultKind, nil
	}
	k := Kind(s)
	if !k.IsValid() {
		return "", &KindError{Kind: s}
	}
	return k, nil
}

// FileName is the collection file name for the kind, relative to the data directory.
func (k Kind) FileName() string {
	return string(k) + ".json"
}

// BodyKey is the JSON key that holds the entry body for this kind.
// Articles store it under "content"; every other kind uses "details".
func (k Kind) BodyKey() string {
	if k == KindArticle {
		return bodyKeyContent
	}
	return bodyKeyDetails
}

// HasCategory reports whether entries of this kind carry a category.
func (k Kind) HasCategory() bool {
	return k == KindArticle
}

func (k Kind) String() string {
	return string(k)
}

// Entry is one content item in a collection.
type Entry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
	Category string   `json:"category,omitempty"`
	Link     string   `json:"link"`
	Image    string   `json:"image"`
	ImageAlt string   `json:"imageAlt"`
}

// Draft is an entry as submitted for saving, before its id is derived.
// Body is the already composed body text.
type Draft struct {
	OriginalID string   `json:"originalId"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Body       string   `json:"body"`
	Tags       []string `json:"tags"`
	Category   string   `json:"category"`
	Link       string   `json:"link"`
	Image      string   `json:"image"`
	ImageAlt   string   `json:"imageAlt"`
}

// BlockType tags a content block.
type BlockType string

// Block type constants (typed).
const (
	BlockParagraph BlockType = "paragraph"
	BlockImage     BlockType = "image"
)

// Block is one paragraph or image reference in the editing view.
// Blocks are never persisted; they only produce or describe an entry body.
type Block struct {
	Type      BlockType `json:"type"`
	Text      string    `json:"text,omitempty"`
	ImageAlt  string    `json:"imageAlt,omitempty"`
	ImagePath string    `json:"imagePath,omitempty"`
	ImageData string    `json:"imageData,omitempty"`
	ImageName string    `json:"imageName,omitempty"`
}

// Paragraph returns a paragraph block.
func Paragraph(text string) Block {
	return Block{Type: BlockParagraph, Text: text}
}

// Image returns an image block that references an existing path.
func Image(alt, path string) Block {
	return Block{Type: BlockImage, ImageAlt: alt, ImagePath: path}
}

// PublishResult describes the outcome of a publish.
type PublishResult struct {
	Message string `json:"message"`
	Details string `json:"details"`
	// Changed is false when there was nothing to commit.
	Changed bool `json:"changed"`
}

// imageRef renders the single-line body form of an image block.
func imageRef(alt, path string) string {
	return fmt.Sprintf("![%s](%s)", alt, path)
}
