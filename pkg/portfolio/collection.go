package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// DefaultDataDir is the directory, relative to the project root, that holds collection files.
const DefaultDataDir = "data"

var emptyCollection = []byte("[]\n")

// CollectionStore loads and rewrites the JSON array file backing each kind.
//
// Every mutation rewrites the whole file. The store does no locking: two
// writers racing on the same kind lose one of the updates without detection.
type CollectionStore struct {
	blobs BlobStore
	dir   string
}

// NewCollectionStore creates a collection store rooted at dir (DefaultDataDir when empty).
func NewCollectionStore(blobs BlobStore, dir string) *CollectionStore {
	if dir == "" {
		dir = DefaultDataDir
	}
	return &CollectionStore{blobs: blobs, dir: strings.Trim(dir, "/")}
}

// Path returns the key of the kind's collection file, e.g. "data/article.json".
func (s *CollectionStore) Path(kind Kind) string {
	return path.Join(s.dir, kind.FileName())
}

// List returns the kind's entries, newest first.
func (s *CollectionStore) List(ctx context.Context, kind Kind) ([]Entry, error) {
	rows, err := s.load(ctx, kind)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for i, raw := range rows {
		entry, err := decodeEntry(kind, raw)
		if err != nil {
			return nil, &StoreError{Key: s.Path(kind), Op: "read", Err: fmt.Errorf("%w: row %d: %v", ErrCorruptStore, i, err)}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Get returns the entry with the given id.
func (s *CollectionStore) Get(ctx context.Context, kind Kind, id string) (*Entry, error) {
	entries, err := s.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, &EntryError{Kind: kind, ID: id, Op: "get", Err: ErrEntryNotFound}
}

// Save validates the draft, derives its id from the title and prepends it.
//
// Any existing row whose id matches the new id or the draft's OriginalID is
// removed first, so renaming an entry replaces its old row and two titles
// with the same slug keep only the newest.
func (s *CollectionStore) Save(ctx context.Context, kind Kind, draft Draft) (*Entry, error) {
	if !kind.IsValid() {
		return nil, &KindError{Kind: string(kind)}
	}
	draft = normalizeDraft(kind, draft)
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	entry := Entry{
		ID:       Slugify(draft.Title),
		Title:    draft.Title,
		Summary:  draft.Summary,
		Body:     draft.Body,
		Tags:     draft.Tags,
		Category: draft.Category,
		Link:     draft.Link,
		Image:    draft.Image,
		ImageAlt: draft.ImageAlt,
	}
	row, err := encodeEntry(kind, entry)
	if err != nil {
		return nil, err
	}

	rows, err := s.load(ctx, kind)
	if err != nil {
		return nil, err
	}

	kept := make([]json.RawMessage, 0, len(rows)+1)
	kept = append(kept, row)
	for _, r := range rows {
		id := rowID(r)
		if id == entry.ID || (draft.OriginalID != "" && id == draft.OriginalID) {
			continue
		}
		kept = append(kept, r)
	}

	if err := s.write(ctx, kind, kept); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes the entry with the given id. The file is left untouched when
// no such entry exists.
func (s *CollectionStore) Delete(ctx context.Context, kind Kind, id string) error {
	rows, err := s.load(ctx, kind)
	if err != nil {
		return err
	}

	kept := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		if rowID(r) != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(rows) {
		return &EntryError{Kind: kind, ID: id, Op: "delete", Err: ErrEntryNotFound}
	}
	return s.write(ctx, kind, kept)
}

// load reads the kind's rows, creating an empty collection file if none exists.
func (s *CollectionStore) load(ctx context.Context, kind Kind) ([]json.RawMessage, error) {
	if !kind.IsValid() {
		return nil, &KindError{Kind: string(kind)}
	}
	key := s.Path(kind)

	rc, err := s.blobs.Download(ctx, key)
	if errors.Is(err, ErrObjectNotFound) {
		if err := s.blobs.Upload(ctx, key, bytes.NewReader(emptyCollection)); err != nil {
			return nil, &StoreError{Key: key, Op: "init", Err: err}
		}
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, &StoreError{Key: key, Op: "read", Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &StoreError{Key: key, Op: "read", Err: err}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []json.RawMessage{}, nil
	}
	if data[0] != '[' {
		return nil, &StoreError{Key: key, Op: "read", Err: ErrCorruptStore}
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &StoreError{Key: key, Op: "read", Err: fmt.Errorf("%w: %v", ErrCorruptStore, err)}
	}
	return rows, nil
}

// write rewrites the whole collection file as 2-space indented JSON with a trailing newline.
func (s *CollectionStore) write(ctx context.Context, kind Kind, rows []json.RawMessage) error {
	key := s.Path(kind)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return &StoreError{Key: key, Op: "encode", Err: err}
	}

	if err := s.blobs.UploadWithParams(ctx, &buf, UploadParams{Key: key, MimeType: "application/json"}); err != nil {
		return &StoreError{Key: key, Op: "write", Err: err}
	}
	return nil
}

// normalizeDraft trims every field and applies the per-kind defaults.
func normalizeDraft(kind Kind, d Draft) Draft {
	d.OriginalID = strings.TrimSpace(d.OriginalID)
	d.Title = strings.TrimSpace(d.Title)
	d.Summary = strings.TrimSpace(d.Summary)
	d.Body = strings.TrimSpace(d.Body)
	d.Link = strings.TrimSpace(d.Link)
	d.Image = strings.TrimSpace(d.Image)
	d.ImageAlt = strings.TrimSpace(d.ImageAlt)
	d.Category = strings.TrimSpace(d.Category)

	if d.Link == "" {
		d.Link = DefaultLink
	}
	if kind.HasCategory() {
		if d.Category == "" {
			d.Category = DefaultCategory
		}
	} else {
		d.Category = ""
	}

	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	d.Tags = tags
	return d
}
