package portfolio

import (
	"context"
	"io"
)

// BlobStore defines the interface for storage backends.
// Keys are slash-separated paths relative to the project root,
// e.g. "data/article.json" or "images/my-pic.png".
type BlobStore interface {
	// Upload replaces the object at key with the reader's contents
	Upload(ctx context.Context, key string, reader io.Reader) error

	// UploadWithParams uploads content with additional parameters
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download opens the object at key. Missing keys return ErrObjectNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// VersionControl is the narrow surface the Publisher needs from git.
//
// Failing commands return an error whose message is the tool's diagnostic
// text, unmodified.
type VersionControl interface {
	// IsRepo reports whether the working directory is inside a work tree
	IsRepo(ctx context.Context) (bool, error)

	// StageAll stages tracked and untracked changes
	StageAll(ctx context.Context) error

	// HasStagedChanges reports whether the index differs from HEAD
	HasStagedChanges(ctx context.Context) (bool, error)

	// Commit records the staged changes and returns the tool's output
	Commit(ctx context.Context, message string) (string, error)

	// Push sends the current branch to remote/branch and returns the tool's output
	Push(ctx context.Context, remote, branch string) (string, error)
}

// EventSink receives lifecycle notifications after an operation succeeds
type EventSink interface {
	// EntrySaved is fired after an entry has been persisted
	EntrySaved(ctx context.Context, kind Kind, entry *Entry) error

	// EntryDeleted is fired after an entry has been removed
	EntryDeleted(ctx context.Context, kind Kind, id string) error

	// AssetStored is fired after an image has been written
	AssetStored(ctx context.Context, kind Kind, path string) error

	// Published is fired after a publish completes, including no-op publishes
	Published(ctx context.Context, result *PublishResult) error
}

// Renderer turns an entry body into HTML for previews
type Renderer interface {
	Render(body string) (string, error)
}

// ImageSaver materializes inline image data and returns the stored path
type ImageSaver interface {
	SaveImage(ctx context.Context, kind Kind, declaredName, inlineData string) (string, error)
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	Key      string
	MimeType string
}
