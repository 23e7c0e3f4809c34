package portfolio

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrValidation indicates a required draft field is missing or empty
	ErrValidation = errors.New("validation failed")

	// ErrUnknownKind indicates a kind outside the recognized set
	ErrUnknownKind = errors.New("unknown kind")

	// ErrEntryNotFound indicates no entry with the requested id exists
	ErrEntryNotFound = errors.New("entry not found")

	// ErrMalformedPayload indicates inline image data that cannot be decoded
	ErrMalformedPayload = errors.New("malformed image payload")

	// ErrCorruptStore indicates a collection file that is not a JSON array
	ErrCorruptStore = errors.New("collection file must contain a JSON array")

	// ErrEmptyComposition indicates that no content block survived filtering
	ErrEmptyComposition = errors.New("at least one content block is required")

	// ErrNotARepository indicates the working directory is not inside a git work tree
	ErrNotARepository = errors.New("current directory is not a git repository")

	// ErrPublishFailed indicates a stage, commit or push command failed
	ErrPublishFailed = errors.New("publish failed")

	// ErrObjectNotFound is returned by blob stores for missing keys
	ErrObjectNotFound = errors.New("object not found")
)

// ValidationError names the draft field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// KindError reports an unrecognized kind.
type KindError struct {
	Kind string
}

func (e *KindError) Error() string {
	return fmt.Sprintf("invalid kind %q: must be article, project, or note", e.Kind)
}

func (e *KindError) Unwrap() error {
	return ErrUnknownKind
}

// EntryError represents an error related to a single entry
type EntryError struct {
	Kind Kind
	ID   string
	Op   string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Op, e.Kind, e.ID, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// AssetError represents an error related to decoding or storing an image asset
type AssetError struct {
	Name string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("image %q: %v", e.Name, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// StoreError represents an error related to reading or writing a collection file
type StoreError struct {
	Key string
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// PublishError carries the diagnostic text of a failed publish step verbatim.
type PublishError struct {
	Step   string
	Output string
	Err    error
}

func (e *PublishError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	return e.Err.Error()
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
