package portfolio

import (
	"context"
	"regexp"
	"strings"
)

// blockSeparator joins rendered blocks. Decompose relies on it.
const blockSeparator = "\n\n"

// imageRefPattern matches a single ![alt](path) line with a non-empty path.
// The lazy groups let alt text contain ']' and paths contain ')'.
var imageRefPattern = regexp.MustCompile(`^!\[(.*?)\]\(([^\n]+?)\)$`)

// Composer flattens ordered content blocks into an entry body.
type Composer struct {
	images ImageSaver
}

// NewComposer creates a composer that stores inline images through images.
func NewComposer(images ImageSaver) *Composer {
	return &Composer{images: images}
}

// Compose renders blocks in order, separated by one blank line.
//
// Paragraphs render as their trimmed text and images as ![alt](path). Inline
// image data is stored first and its path replaces any given path. Empty
// paragraphs, images without path or data, and unknown block types are
// dropped. ErrEmptyComposition is returned when nothing survives.
func (c *Composer) Compose(ctx context.Context, kind Kind, blocks []Block) (string, error) {
	rendered := make([]string, 0, len(blocks))
	for _, block := range blocks {
		switch BlockType(strings.ToLower(strings.TrimSpace(string(block.Type)))) {
		case BlockParagraph:
			if text := strings.TrimSpace(block.Text); text != "" {
				rendered = append(rendered, text)
			}
		case BlockImage:
			imagePath := strings.TrimSpace(block.ImagePath)
			if data := strings.TrimSpace(block.ImageData); data != "" {
				name := strings.TrimSpace(block.ImageName)
				if name == "" {
					name = DefaultInlineImage
				}
				stored, err := c.images.SaveImage(ctx, kind, name, data)
				if err != nil {
					return "", err
				}
				imagePath = stored
			}
			if imagePath != "" {
				rendered = append(rendered, imageRef(strings.TrimSpace(block.ImageAlt), imagePath))
			}
		}
	}

	body := strings.TrimSpace(strings.Join(rendered, blockSeparator))
	if body == "" {
		return "", ErrEmptyComposition
	}
	return body, nil
}

// Decompose rebuilds editing blocks from a stored body.
//
// The body is split on runs of blank lines and each chunk is trimmed. A chunk
// that is exactly one ![alt](path) line becomes an image block; any other
// chunk is a paragraph. Inline payloads are not recoverable, so the result is
// a best-effort view of the blocks that produced the body.
func Decompose(body string) []Block {
	var (
		blocks []Block
		chunk  []string
	)
	flush := func() {
		text := strings.TrimSpace(strings.Join(chunk, "\n"))
		chunk = chunk[:0]
		if text == "" {
			return
		}
		if m := imageRefPattern.FindStringSubmatch(text); m != nil {
			blocks = append(blocks, Image(m[1], m[2]))
			return
		}
		blocks = append(blocks, Paragraph(text))
	}

	body = strings.ReplaceAll(body, "\r\n", "\n")
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		chunk = append(chunk, line)
	}
	flush()
	return blocks
}
