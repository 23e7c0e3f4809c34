package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New()

	tests := []struct {
		name     string
		body     string
		contains []string
		excludes []string
	}{
		{
			name:     "paragraphs",
			body:     "First\n\nSecond",
			contains: []string{"<p>First</p>", "<p>Second</p>"},
		},
		{
			name:     "image reference",
			body:     "![A diagram](images/diagram.png)",
			contains: []string{`src="images/diagram.png"`, `alt="A diagram"`},
		},
		{
			name:     "hard wraps",
			body:     "line one\nline two",
			contains: []string{"<br>"},
		},
		{
			name:     "gfm strikethrough",
			body:     "~~old~~",
			contains: []string{"<del>old</del>"},
		},
		{
			name:     "raw html dropped",
			body:     "<script>alert(1)</script>\n\ntext",
			contains: []string{"<p>text</p>"},
			excludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := r.Render(tt.body)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, html, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, html, bad)
			}
		})
	}
}
