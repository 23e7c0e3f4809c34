package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	memorystorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
)

type stubVCS struct {
	dirty   bool
	pushErr error
}

func (s *stubVCS) IsRepo(ctx context.Context) (bool, error) {
	return true, nil
}

func (s *stubVCS) StageAll(ctx context.Context) error {
	return nil
}

func (s *stubVCS) HasStagedChanges(ctx context.Context) (bool, error) {
	return s.dirty, nil
}

func (s *stubVCS) Commit(ctx context.Context, message string) (string, error) {
	return "committed: " + message, nil
}

func (s *stubVCS) Push(ctx context.Context, remote, branch string) (string, error) {
	return "pushed", s.pushErr
}

type echoRenderer struct{}

func (echoRenderer) Render(body string) (string, error) {
	return "<p>" + body + "</p>", nil
}

func setupServer(t *testing.T, opts ...portfolio.Option) (http.Handler, *memorystorage.Backend) {
	t.Helper()
	blobs := memorystorage.New()
	opts = append([]portfolio.Option{
		portfolio.WithCollectionStore(blobs),
		portfolio.WithRenderer(echoRenderer{}),
	}, opts...)
	svc, err := portfolio.New(opts...)
	require.NoError(t, err)
	return NewServer(svc).Routes(), blobs
}

func do(t *testing.T, h http.Handler, method, target string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func TestHealth(t *testing.T) {
	h, _ := setupServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"healthy"`)
}

func TestRequestIDGenerated(t *testing.T) {
	h, _ := setupServer(t)
	w, _ := do(t, h, http.MethodGet, "/health", nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestSaveListGet(t *testing.T) {
	h, _ := setupServer(t)

	w, resp := do(t, h, http.MethodPost, "/api/save", map[string]interface{}{
		"kind":  "article",
		"title": "Hello World",
		"about": "Intro",
		"tags":  "go, web",
		"additions": []map[string]string{
			{"type": "paragraph", "text": "First"},
			{"type": "image", "imageAlt": "pic", "imagePath": "images/pic.png"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, "hello-world", resp["id"])
	assert.Equal(t, "Hello World", resp["title"])
	assert.Equal(t, "data/article.json", resp["file"])

	w, resp = do(t, h, http.MethodGet, "/api/list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "article", resp["kind"])
	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "go, web", item["tags"])
	assert.Equal(t, "First\n\n![pic](images/pic.png)", item["body"])
	assert.Equal(t, "Technical", item["category"])
	assert.Equal(t, "#", item["link"])

	w, resp = do(t, h, http.MethodGet, "/api/entries/article/hello-world", nil)
	require.Equal(t, http.StatusOK, w.Code)
	blocks := resp["item"].(map[string]interface{})["blocks"].([]interface{})
	require.Len(t, blocks, 2)
	assert.Equal(t, "image", blocks[1].(map[string]interface{})["type"])
	assert.Equal(t, "images/pic.png", blocks[1].(map[string]interface{})["imagePath"])
}

func TestListEmptyKind(t *testing.T) {
	h, _ := setupServer(t)
	w, _ := do(t, h, http.MethodGet, "/api/list?kind=note", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestDelete(t *testing.T) {
	h, _ := setupServer(t)

	w, _ := do(t, h, http.MethodPost, "/api/save", map[string]string{"kind": "project", "title": "Tool", "about": "a", "body": "b"})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := do(t, h, http.MethodPost, "/api/delete", map[string]string{"kind": "project", "id": "tool"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tool", resp["id"])
	assert.Equal(t, "data/project.json", resp["file"])
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       interface{}
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{"missing title", http.MethodPost, "/api/save", map[string]string{"about": "a", "body": "b"}, http.StatusBadRequest, CodeValidation, "title"},
		{"empty additions", http.MethodPost, "/api/save", map[string]interface{}{"title": "t", "about": "a", "additions": []map[string]string{{"type": "paragraph"}}}, http.StatusBadRequest, CodeValidation, "at least one content block is required"},
		{"unknown kind list", http.MethodGet, "/api/list?kind=poem", nil, http.StatusBadRequest, CodeUnknownKind, "poem"},
		{"unknown kind get", http.MethodGet, "/api/entries/poem/x", nil, http.StatusBadRequest, CodeUnknownKind, "poem"},
		{"malformed image", http.MethodPost, "/api/save", map[string]string{"title": "t", "about": "a", "body": "b", "imageData": "nope"}, http.StatusBadRequest, CodeMalformed, ""},
		{"bad json", http.MethodPost, "/api/save", "{not json", http.StatusBadRequest, CodeBadRequest, ""},
		{"get missing", http.MethodGet, "/api/entries/article/missing", nil, http.StatusNotFound, CodeNotFound, ""},
		{"delete missing", http.MethodPost, "/api/delete", map[string]string{"id": "missing"}, http.StatusNotFound, CodeNotFound, ""},
		{"delete without id", http.MethodPost, "/api/delete", map[string]string{"kind": "note"}, http.StatusBadRequest, CodeValidation, "id"},
		{"deploy outside repository", http.MethodPost, "/api/deploy", nil, http.StatusConflict, CodeNotARepository, "current directory is not a git repository"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupServer(t)
			w, resp := do(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, false, resp["ok"])
			assert.Equal(t, tt.wantCode, resp["code"])
			if tt.wantError != "" {
				assert.Contains(t, resp["error"], tt.wantError)
			}
		})
	}
}

func TestCorruptStore(t *testing.T) {
	h, blobs := setupServer(t)
	require.NoError(t, blobs.Upload(context.Background(), "data/article.json", strings.NewReader(`{"oops": true}`)))

	w, resp := do(t, h, http.MethodGet, "/api/list", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodeCorruptStore, resp["code"])
	assert.Contains(t, resp["error"], "collection file must contain a JSON array")
}

func TestDeploy(t *testing.T) {
	t.Run("success with empty body", func(t *testing.T) {
		h, _ := setupServer(t, portfolio.WithVersionControl(&stubVCS{dirty: true}))
		w, resp := do(t, h, http.MethodPost, "/api/deploy", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Deployed successfully to origin/main", resp["message"])
		assert.Equal(t, "committed: Update portfolio content from local editor\npushed", resp["details"])
		assert.Equal(t, true, resp["changed"])
	})

	t.Run("nothing to deploy", func(t *testing.T) {
		h, _ := setupServer(t, portfolio.WithVersionControl(&stubVCS{}))
		w, resp := do(t, h, http.MethodPost, "/api/deploy", map[string]string{"message": "x"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "No staged changes to deploy.", resp["message"])
		assert.Equal(t, "Working tree has no new changes.", resp["details"])
	})

	t.Run("push rejected", func(t *testing.T) {
		vcs := &stubVCS{dirty: true, pushErr: errors.New("! [rejected] main -> main (non-fast-forward)")}
		h, _ := setupServer(t, portfolio.WithVersionControl(vcs))
		w, resp := do(t, h, http.MethodPost, "/api/deploy", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, CodePublishFailed, resp["code"])
		assert.Equal(t, "! [rejected] main -> main (non-fast-forward)", resp["error"])
	})
}

func TestPreview(t *testing.T) {
	h, blobs := setupServer(t)

	w, resp := do(t, h, http.MethodPost, "/api/preview", map[string]string{"body": "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>hello</p>", resp["html"])
	assert.Empty(t, blobs.Keys())
}

func TestStaticHandler(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "about.html"), []byte("<h1>site</h1>"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "config"), []byte("[core]"), 0644))

	svc, err := portfolio.New(portfolio.WithCollectionStore(memorystorage.New()))
	require.NoError(t, err)
	h := NewServer(svc, WithStaticRoot(root)).Routes()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/about.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "site")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/.git/config", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	svc, err := portfolio.New(portfolio.WithCollectionStore(memorystorage.New()))
	require.NoError(t, err)

	preflight := func(h http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/save", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	t.Run("off by default", func(t *testing.T) {
		h := NewServer(svc).Routes()

		w := preflight(h, "https://evil.example")
		assert.NotEqual(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

		req := httptest.NewRequest(http.MethodGet, "/api/list", nil)
		req.Header.Set("Origin", "https://evil.example")
		w = httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("listed origin", func(t *testing.T) {
		h := NewServer(svc, WithCORS("http://localhost:5173/")).Routes()

		w := preflight(h, "http://localhost:5173")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))

		w = preflight(h, "https://evil.example")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		h := NewServer(svc, WithCORS("*")).Routes()

		w := preflight(h, "https://anywhere.example")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
