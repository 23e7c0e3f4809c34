package portfolio

import (
	"bytes"
	"encoding/json"
	"strings"
)

// articleRow is the on-disk shape of an article. Field order matches the
// files the site already ships.
type articleRow struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags"`
	Link     string   `json:"link"`
	Image    string   `json:"image"`
	ImageAlt string   `json:"imageAlt"`
	Category string   `json:"category"`
	Content  string   `json:"content"`
}

// detailRow is the on-disk shape of projects and notes.
type detailRow struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags"`
	Link     string   `json:"link"`
	Image    string   `json:"image"`
	ImageAlt string   `json:"imageAlt"`
	Details  string   `json:"details"`
}

// storedRow accepts any kind's row, including legacy rows with missing fields.
type storedRow struct {
	ID       json.RawMessage `json:"id"`
	Title    string          `json:"title"`
	Summary  string          `json:"summary"`
	Content  *string         `json:"content"`
	Details  *string         `json:"details"`
	Tags     []string        `json:"tags"`
	Category string          `json:"category"`
	Link     *string         `json:"link"`
	Image    string          `json:"image"`
	ImageAlt string          `json:"imageAlt"`
}

func encodeEntry(kind Kind, e Entry) (json.RawMessage, error) {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	var row interface{}
	if kind.HasCategory() {
		row = articleRow{
			ID: e.ID, Title: e.Title, Summary: e.Summary, Tags: tags, Link: e.Link,
			Image: e.Image, ImageAlt: e.ImageAlt, Category: e.Category, Content: e.Body,
		}
	} else {
		row = detailRow{
			ID: e.ID, Title: e.Title, Summary: e.Summary, Tags: tags, Link: e.Link,
			Image: e.Image, ImageAlt: e.ImageAlt, Details: e.Body,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(row); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// decodeEntry reads a stored row. The body comes from the kind's own body key,
// then the other body key, then the summary.
func decodeEntry(kind Kind, raw json.RawMessage) (Entry, error) {
	var row storedRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return Entry{}, err
	}

	primary, secondary := row.Content, row.Details
	if kind.BodyKey() == bodyKeyDetails {
		primary, secondary = row.Details, row.Content
	}
	body := row.Summary
	switch {
	case primary != nil:
		body = *primary
	case secondary != nil:
		body = *secondary
	}

	link := DefaultLink
	if row.Link != nil {
		link = *row.Link
	}
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}

	return Entry{
		ID:       idString(row.ID),
		Title:    row.Title,
		Summary:  row.Summary,
		Body:     body,
		Tags:     tags,
		Category: row.Category,
		Link:     link,
		Image:    row.Image,
		ImageAlt: row.ImageAlt,
	}, nil
}

// rowID extracts a row's id without decoding the rest of it.
func rowID(raw json.RawMessage) string {
	var row struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return ""
	}
	return idString(row.ID)
}

// idString renders a raw id value; non-string ids compare by their JSON text.
func idString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
