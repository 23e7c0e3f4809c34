package portfolio

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// draftFieldOrder is the order in which missing fields are reported.
var draftFieldOrder = []string{"title", "summary", "body"}

// ValidateDraft checks that the draft's title, summary and body are present
// after trimming and that the title yields a non-empty slug. The first
// failing field is returned as a *ValidationError.
func ValidateDraft(d Draft) error {
	d.Title = strings.TrimSpace(d.Title)
	d.Summary = strings.TrimSpace(d.Summary)
	d.Body = strings.TrimSpace(d.Body)

	err := validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required, validation.By(sluggable)),
		validation.Field(&d.Summary, validation.Required),
		validation.Field(&d.Body, validation.Required.Error(ErrEmptyComposition.Error())),
	)
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	for _, field := range draftFieldOrder {
		if fieldErr, ok := errs[field]; ok {
			return &ValidationError{Field: field, Reason: fieldErr.Error()}
		}
	}
	return err
}

func sluggable(value interface{}) error {
	s, _ := value.(string)
	if Slugify(s) == "" {
		return errors.New("must contain at least one letter or digit")
	}
	return nil
}
