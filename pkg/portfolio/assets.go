package portfolio

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultImagesDir is the directory, relative to the project root, that holds image assets.
const DefaultImagesDir = "images"

const fallbackImageExt = ".png"

// AssetStore decodes inline image payloads into files under its images directory.
//
// Names are derived from the declared file name, so two uploads with the same
// slug overwrite each other. Assets are never removed when entries change.
type AssetStore struct {
	blobs BlobStore
	dir   string
}

// NewAssetStore creates an asset store writing under dir (DefaultImagesDir when empty).
func NewAssetStore(blobs BlobStore, dir string) *AssetStore {
	if dir == "" {
		dir = DefaultImagesDir
	}
	return &AssetStore{blobs: blobs, dir: strings.Trim(dir, "/")}
}

// SaveImage writes a data URL (data:<mime>;base64,<payload>) and returns the
// stored path relative to the project root.
func (s *AssetStore) SaveImage(ctx context.Context, kind Kind, declaredName, inlineData string) (string, error) {
	mimeType, data, err := decodeDataURL(inlineData)
	if err != nil {
		return "", &AssetError{Name: declaredName, Err: err}
	}

	name := Slugify(fileStem(declaredName))
	if name == "" {
		name = string(kind) + "-thumbnail"
	}
	key := path.Join(s.dir, name+extensionFor(mimeType))

	if err := s.blobs.UploadWithParams(ctx, bytes.NewReader(data), UploadParams{Key: key, MimeType: mimeType}); err != nil {
		return "", &AssetError{Name: declaredName, Err: fmt.Errorf("store %s: %w", key, err)}
	}
	return key, nil
}

// decodeDataURL splits a data URL on its first comma and base64-decodes the payload.
func decodeDataURL(inlineData string) (string, []byte, error) {
	header, encoded, ok := strings.Cut(inlineData, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing ',' between header and payload", ErrMalformedPayload)
	}

	mimeType, _, _ := strings.Cut(header, ";")
	mimeType = strings.TrimSpace(strings.Replace(mimeType, "data:", "", 1))

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return mimeType, data, nil
}

// extensionFor maps a media type to a file extension, falling back to .png.
func extensionFor(mimeType string) string {
	if mimeType == "" {
		return fallbackImageExt
	}
	if m := mimetype.Lookup(strings.ToLower(mimeType)); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return fallbackImageExt
}

// fileStem returns the final path element of name without its last extension.
func fileStem(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	if stem := strings.TrimSuffix(base, path.Ext(base)); stem != "" {
		return stem
	}
	return base
}
