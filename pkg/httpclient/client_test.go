package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, New(ts.URL, "/applications/app")
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// --- New ---

func TestNew_JoinsBasePath(t *testing.T) {
	tests := []struct {
		backend, base, want string
	}{
		{"http://localhost:8000", "/applications/app", "http://localhost:8000/applications/app"},
		{"http://localhost:8000/", "/multimedia/", "http://localhost:8000/multimedia"},
		{"https://api.example.org", "users", "https://api.example.org/users"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.backend, tt.base).BaseURL())
	}
}

// --- Send ---

func TestSend_AttachesBearerAndJSON(t *testing.T) {
	var gotAuth, gotType, gotPath, gotBody string
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		respond(http.StatusCreated, `{"id": 7}`)(w, r)
	})

	data, err := c.Send(context.Background(), http.MethodPost, "/", JSON(map[string]string{"title": "Moodle"}), "t1")
	require.NoError(t, err)

	assert.JSONEq(t, `{"id": 7}`, string(data))
	assert.Equal(t, "Bearer t1", gotAuth)
	assert.Equal(t, ContentTypeJSON, gotType)
	assert.Equal(t, "/applications/app/", gotPath)
	assert.JSONEq(t, `{"title": "Moodle"}`, gotBody)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestSend_EmptyTokenStillSendsHeader(t *testing.T) {
	var sent *http.Request
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		sent = r
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`[]`)),
			Request:    r,
		}, nil
	})}
	c := New("http://portal.test", "/applications/app", WithHTTPClient(hc))

	_, err := c.Send(context.Background(), http.MethodGet, "/", nil, "")
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, []string{"Bearer "}, sent.Header.Values("Authorization"))
}

func TestSend_MultipartWithFile(t *testing.T) {
	var fields map[string]string
	var fileName, fileContent string
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fields = map[string]string{
			"title":   r.FormValue("title"),
			"version": r.FormValue("version"),
		}
		f, hdr, err := r.FormFile("data")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		fileName, fileContent = hdr.Filename, string(b)
		respond(http.StatusOK, `{"id": 3}`)(w, r)
	})

	body := Multipart(
		[]Field{{Name: "title", Value: "Octave"}, {Name: "version", Value: "9.1"}},
		File{Field: "data", Name: "octave.zip", Content: strings.NewReader("binary")},
	)
	_, err := c.Send(context.Background(), http.MethodPut, ItemPath(3), body, "t1")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"title": "Octave", "version": "9.1"}, fields)
	assert.Equal(t, "octave.zip", fileName)
	assert.Equal(t, "binary", fileContent)
}

func TestSend_MultipartRejectsNilContent(t *testing.T) {
	c := New("http://127.0.0.1:1", "/blog")
	_, err := c.Send(context.Background(), http.MethodPost, "/", Multipart(nil, File{Field: "image"}), "t1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image")
}

// --- Errors ---

func TestSend_DetailMessage(t *testing.T) {
	_, c := newServer(t, respond(http.StatusNotFound, `{"detail": "No encontrado"}`))

	_, err := c.Send(context.Background(), http.MethodGet, ItemPath(99), nil, "t1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "No encontrado", Message(err))
	assert.True(t, IsNotFound(err))
}

func TestSend_StatusMessageWithoutDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no body", ``},
		{"html body", `<h1>Server Error</h1>`},
		{"non-string detail", `{"detail": {"code": 1}}`},
		{"field errors", `{"title": ["This field is required."]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newServer(t, respond(http.StatusInternalServerError, tt.body))
			_, err := c.Send(context.Background(), http.MethodGet, "/", nil, "t1")
			assert.Equal(t, "Request failed with status code 500", Message(err))
			assert.False(t, IsNotFound(err))
		})
	}
}

func TestSend_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	c := New(ts.URL, "/users")

	_, err := c.Send(context.Background(), http.MethodGet, "/", nil, "t1")
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Contains(t, Message(err), "Network Error")
	assert.Equal(t, http.MethodGet, transportErr.Method)
}

func TestSend_ContextCancelled(t *testing.T) {
	_, c := newServer(t, respond(http.StatusOK, `[]`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Send(ctx, http.MethodGet, "/", nil, "t1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "boom", Message(errors.New("boom")))
	wrapped := errors.Join(errors.New("ctx"), &APIError{StatusCode: 403, Detail: "Forbidden"})
	assert.Equal(t, "Forbidden", Message(wrapped))
}
