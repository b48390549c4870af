// Package portaltest provides an in-memory portal backend for tests.
package portaltest

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// Detail messages returned by the fake backend.
const (
	NotFoundDetail     = "No encontrado."
	UnauthorizedDetail = "Las credenciales de autenticación no se proveyeron."
)

// Families served by a Server, by base path.
var Families = []string{
	"/applications/app/",
	"/multimedia/",
	"/multimedia/classification/",
	"/blog/",
	"/suggestion/",
	"/users/",
}

// Item is one stored entity.
type Item = map[string]any

// Request is a request as seen by the server.
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
}

// Server is an in-memory portal backend. All families start empty.
type Server struct {
	// Token, when set, is the only bearer token accepted.
	Token string
	// User is reported as the author of created entities.
	User string

	mu       sync.Mutex
	items    map[string][]Item
	nextID   int
	requests []Request
}

// New creates an empty Server.
func New() *Server {
	s := &Server{
		User:   "ana",
		items:  make(map[string][]Item),
		nextID: 100,
	}
	for _, f := range Families {
		s.items[f] = []Item{}
	}
	return s
}

// Start serves s on a test server closed when the test ends.
func (s *Server) Start(tb interface {
	Cleanup(func())
}) *httptest.Server {
	ts := httptest.NewServer(s.Handler())
	tb.Cleanup(ts.Close)
	return ts
}

// Seed appends items to the family at base.
func (s *Server) Seed(base string, items ...Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[base] = append(s.items[base], items...)
}

// Items returns a copy of the family at base.
func (s *Server) Items(base string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items[base])
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Handler returns the HTTP handler of the backend.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, base := range Families {
		mux.HandleFunc("GET "+base+"{$}", s.list(base))
		mux.HandleFunc("POST "+base+"{$}", s.create(base))
		mux.HandleFunc("GET "+base+"{id}/{$}", s.withItem(base, s.details))
		mux.HandleFunc("PUT "+base+"{id}/{$}", s.withItem(base, s.update))
		mux.HandleFunc("DELETE "+base+"{id}/{$}", s.withItem(base, s.remove))
	}
	mux.HandleFunc("POST /blog/{id}/comment/{$}", s.withItem("/blog/", s.comment))
	mux.HandleFunc("POST /users/image/{$}", s.uploadImage)
	return s.authenticate(mux)
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
		})
		s.mu.Unlock()

		if s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
			writeDetail(w, http.StatusUnauthorized, UnauthorizedDetail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Items(base))
	}
}

func (s *Server) create(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := readFields(r)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		s.mu.Lock()
		s.nextID++
		item := Item{"id": s.nextID, "user": s.User, "date": "2024-03-05T10:00:00Z"}
		for k, v := range fields {
			item[k] = v
		}
		s.items[base] = append(s.items[base], item)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, item)
	}
}

type itemHandler func(w http.ResponseWriter, r *http.Request, base string, idx int)

// withItem resolves {id} and calls h with the item's index, holding no lock.
func (s *Server) withItem(base string, h itemHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			writeNotFound(w)
			return
		}
		s.mu.Lock()
		idx := slices.IndexFunc(s.items[base], func(it Item) bool { return toInt(it["id"]) == id })
		s.mu.Unlock()
		if idx < 0 {
			writeNotFound(w)
			return
		}
		h(w, r, base, idx)
	}
}

func (s *Server) details(w http.ResponseWriter, _ *http.Request, base string, idx int) {
	s.mu.Lock()
	item := s.items[base][idx]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, base string, idx int) {
	fields, err := readFields(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	item := s.items[base][idx]
	for k, v := range fields {
		if k == "password" {
			continue
		}
		item[k] = v
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) remove(w http.ResponseWriter, _ *http.Request, base string, idx int) {
	s.mu.Lock()
	item := s.items[base][idx]
	s.items[base] = slices.Delete(s.items[base], idx, idx+1)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, Item{"id": item["id"]})
}

func (s *Server) comment(w http.ResponseWriter, r *http.Request, base string, idx int) {
	fields, err := readFields(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	text, _ := fields["text"].(string)
	if strings.TrimSpace(text) == "" {
		writeDetail(w, http.StatusBadRequest, "El comentario no puede estar vacío.")
		return
	}
	s.mu.Lock()
	s.nextID++
	c := Item{"id": s.nextID, "text": text, "user": s.User, "date": "2024-03-05T10:00:00Z"}
	blog := s.items[base][idx]
	comments, _ := blog["comments"].([]any)
	blog["comments"] = append(comments, c)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	f, hdr, err := r.FormFile("image")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "No se envió ninguna imagen.")
		return
	}
	_ = f.Close()

	id, _ := strconv.Atoi(r.FormValue("user_id"))
	imagePath := "/images/" + path.Base(hdr.Filename)
	s.mu.Lock()
	for _, u := range s.items["/users/"] {
		if toInt(u["id"]) == id {
			u["image"] = imagePath
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, imagePath)
}

// readFields decodes a JSON or multipart request body into a field map.
// Uploaded files are stored as a "/media/<name>" URL under their field name.
func readFields(r *http.Request) (Item, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	fields := Item{}
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			return nil, err
		}
		for k, v := range r.MultipartForm.Value {
			if n, err := strconv.Atoi(v[0]); err == nil && strings.HasSuffix(k, "classification") {
				fields[k] = n
				continue
			}
			fields[k] = v[0]
		}
		for k, files := range r.MultipartForm.File {
			fields[k] = "/media/" + path.Base(files[0].Filename)
		}
		return fields, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("JSON parse error - %v", err)
	}
	return fields, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}
