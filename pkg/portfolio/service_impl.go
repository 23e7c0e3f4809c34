package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// service implements the Service interface
type service struct {
	collectionBlobs BlobStore
	assetBlobs      BlobStore
	dataDir         string
	imagesDir       string
	vcs             VersionControl
	remote          string
	branch          string
	eventSink       EventSink
	renderer        Renderer

	collections *CollectionStore
	assets      *AssetStore
	composer    *Composer
	publisher   *Publisher

	// locks serializes mutations per kind within this process
	locks map[Kind]*sync.Mutex
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithCollectionStore sets the blob store that holds collection files
func WithCollectionStore(store BlobStore) Option {
	return func(s *service) {
		s.collectionBlobs = store
	}
}

// WithAssetStore sets the blob store that holds image assets.
// Defaults to the collection store.
func WithAssetStore(store BlobStore) Option {
	return func(s *service) {
		s.assetBlobs = store
	}
}

// WithDataDir sets the collection directory relative to the project root
func WithDataDir(dir string) Option {
	return func(s *service) {
		s.dataDir = dir
	}
}

// WithImagesDir sets the image directory relative to the project root
func WithImagesDir(dir string) Option {
	return func(s *service) {
		s.imagesDir = dir
	}
}

// WithVersionControl sets the git implementation used by Publish
func WithVersionControl(vcs VersionControl) Option {
	return func(s *service) {
		s.vcs = vcs
	}
}

// WithRemote sets the remote and branch Publish pushes to
func WithRemote(remote, branch string) Option {
	return func(s *service) {
		s.remote = remote
		s.branch = branch
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithRenderer sets the HTML renderer used by Preview
func WithRenderer(renderer Renderer) Option {
	return func(s *service) {
		s.renderer = renderer
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		locks: make(map[Kind]*sync.Mutex),
	}

	for _, option := range options {
		option(s)
	}

	if s.collectionBlobs == nil {
		return nil, fmt.Errorf("collection store is required")
	}
	if s.assetBlobs == nil {
		s.assetBlobs = s.collectionBlobs
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}

	s.collections = NewCollectionStore(s.collectionBlobs, s.dataDir)
	s.assets = NewAssetStore(s.assetBlobs, s.imagesDir)
	s.composer = NewComposer(imageSaverFunc(s.saveImage))
	if s.vcs != nil {
		s.publisher = NewPublisher(s.vcs, s.remote, s.branch)
	}
	for _, k := range Kinds() {
		s.locks[k] = &sync.Mutex{}
	}

	return s, nil
}

// Collection operations

func (s *service) List(ctx context.Context, kind Kind) ([]Entry, error) {
	return s.collections.List(ctx, kind)
}

func (s *service) Get(ctx context.Context, kind Kind, id string) (*Entry, error) {
	return s.collections.Get(ctx, kind, strings.TrimSpace(id))
}

func (s *service) CollectionPath(kind Kind) string {
	return s.collections.Path(kind)
}

func (s *service) Save(ctx context.Context, req SaveEntryRequest) (*SaveEntryResult, error) {
	kind, err := ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(kind)
	defer unlock()

	body := req.Body
	if len(req.Additions) > 0 {
		body, err = s.composer.Compose(ctx, kind, req.Additions)
		if err != nil && !errors.Is(err, ErrEmptyComposition) {
			return nil, err
		}
	}

	draft := normalizeDraft(kind, Draft{
		OriginalID: req.OriginalID,
		Title:      req.Title,
		Summary:    req.About,
		Body:       body,
		Tags:       SplitTags(req.Tags),
		Category:   req.Category,
		Link:       req.Link,
		Image:      req.ImagePath,
		ImageAlt:   req.ImageAlt,
	})
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	if data := strings.TrimSpace(req.ImageData); data != "" {
		name := strings.TrimSpace(req.ImageName)
		if name == "" {
			name = DefaultThumbnailName
		}
		draft.Image, err = s.saveImage(ctx, kind, name, data)
		if err != nil {
			return nil, err
		}
	}

	entry, err := s.collections.Save(ctx, kind, draft)
	if err != nil {
		return nil, err
	}

	if err := s.eventSink.EntrySaved(ctx, kind, entry); err != nil {
		slog.Warn("Event sink failed", "event", "entry_saved", "kind", kind, "id", entry.ID, "error", err)
	}

	return &SaveEntryResult{
		Kind:  kind,
		ID:    entry.ID,
		Title: entry.Title,
		File:  s.collections.Path(kind),
	}, nil
}

func (s *service) Delete(ctx context.Context, req DeleteEntryRequest) (*DeleteEntryResult, error) {
	kind, err := ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "cannot be blank"}
	}

	unlock := s.lock(kind)
	defer unlock()

	if err := s.collections.Delete(ctx, kind, id); err != nil {
		return nil, err
	}

	if err := s.eventSink.EntryDeleted(ctx, kind, id); err != nil {
		slog.Warn("Event sink failed", "event", "entry_deleted", "kind", kind, "id", id, "error", err)
	}

	return &DeleteEntryResult{Kind: kind, ID: id, File: s.collections.Path(kind)}, nil
}

// Publish operations

// Publish holds no collection lock while git runs.
func (s *service) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if s.publisher == nil {
		return nil, &PublishError{Step: "rev-parse", Err: ErrNotARepository}
	}

	result, err := s.publisher.Publish(ctx, req.Message)
	if err != nil {
		return nil, err
	}

	if err := s.eventSink.Published(ctx, result); err != nil {
		slog.Warn("Event sink failed", "event", "published", "error", err)
	}
	return result, nil
}

// Preview operations

func (s *service) Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	if s.renderer == nil {
		return nil, errors.New("preview renderer is not configured")
	}
	kind, err := ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Body)
	if len(req.Additions) > 0 {
		// Inline images are referenced by their data URL instead of being written.
		composer := NewComposer(imageSaverFunc(func(_ context.Context, _ Kind, _, data string) (string, error) {
			return data, nil
		}))
		body, err = composer.Compose(ctx, kind, req.Additions)
		if err != nil {
			return nil, &ValidationError{Field: "body", Reason: err.Error()}
		}
	}

	html, err := s.renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	return &PreviewResult{Body: body, HTML: html}, nil
}

func (s *service) saveImage(ctx context.Context, kind Kind, name, data string) (string, error) {
	stored, err := s.assets.SaveImage(ctx, kind, name, data)
	if err != nil {
		return "", err
	}
	if err := s.eventSink.AssetStored(ctx, kind, stored); err != nil {
		slog.Warn("Event sink failed", "event", "asset_stored", "kind", kind, "path", stored, "error", err)
	}
	return stored, nil
}

func (s *service) lock(kind Kind) func() {
	mu := s.locks[kind]
	mu.Lock()
	return mu.Unlock
}

// imageSaverFunc adapts a function to the ImageSaver interface
type imageSaverFunc func(ctx context.Context, kind Kind, declaredName, inlineData string) (string, error)

func (f imageSaverFunc) SaveImage(ctx context.Context, kind Kind, declaredName, inlineData string) (string, error) {
	return f(ctx, kind, declaredName, inlineData)
}
