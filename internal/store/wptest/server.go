// Package wptest runs an in-memory stand-in for the WordPress REST API
// endpoints the review store talks to.
package wptest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	User     = "editor"
	Password = "abcd efgh ijkl mnop"
)

// Post is a stored review post.
type Post struct {
	ID      int64
	Date    string
	Status  string
	Title   string
	Content string
	ACF     map[string]any
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	posts       map[int64]*Post
	nextID      int64
	mediaStatus int
	createFail  *failure
	created     []map[string]any
	uploads     []string
	clock       time.Time
}

// New starts a fake site and closes it when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		posts:  make(map[int64]*Post),
		nextID: 100,
		clock:  time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /wp-json/wp/v2/{$}", s.root)
	mux.HandleFunc("GET /wp-json/wp/v2/reviews", s.list)
	mux.HandleFunc("POST /wp-json/wp/v2/reviews", s.create)
	mux.HandleFunc("GET /wp-json/wp/v2/reviews/{id}", s.get)
	mux.HandleFunc("POST /wp-json/wp/v2/reviews/{id}", s.update)
	mux.HandleFunc("POST /wp-json/wp/v2/media", s.media)

	s.Server = httptest.NewServer(s.authenticated(mux))
	t.Cleanup(s.Close)
	return s
}

// AddPost stores p and returns its id. A zero id is assigned.
func (s *Server) AddPost(p Post) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		s.nextID++
		p.ID = s.nextID
	}
	s.posts[p.ID] = &p
	return p.ID
}

func (s *Server) Post(id int64) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return Post{}, false
	}
	return *p, true
}

// FailMedia makes every media upload answer with status.
func (s *Server) FailMedia(status int) {
	s.mu.Lock()
	s.mediaStatus = status
	s.mu.Unlock()
}

type failure struct {
	status  int
	message string
}

// FailCreate makes every create request answer with status and message.
func (s *Server) FailCreate(status int, message string) {
	s.mu.Lock()
	s.createFail = &failure{status: status, message: message}
	s.mu.Unlock()
}

// Created returns the decoded bodies of every create request.
func (s *Server) Created() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.created...)
}

// Uploads returns the filenames received by the media endpoint.
func (s *Server) Uploads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uploads...)
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != User || p != Password {
			writeError(w, http.StatusUnauthorized, "rest_not_logged_in", "You are not currently logged in.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"name": "mytCreative", "description": "test site"})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage <= 0 {
		perPage = 10
	}

	s.mu.Lock()
	var out []*Post
	for _, p := range s.posts {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > perPage {
		out = out[:perPage]
	}

	body := make([]map[string]any, 0, len(out))
	for _, p := range out {
		body = append(body, render(p))
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	fail := s.createFail
	s.mu.Unlock()
	if fail != nil {
		writeError(w, fail.status, "internal_server_error", fail.message)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "rest_invalid_json", "Invalid JSON body passed.")
		return
	}
	acf, _ := body["acf"].(map[string]any)
	if acf == nil {
		writeError(w, http.StatusBadRequest, "rest_invalid_param", "Invalid parameter(s): acf")
		return
	}

	s.mu.Lock()
	s.created = append(s.created, body)
	s.nextID++
	s.clock = s.clock.Add(time.Minute)
	p := &Post{
		ID:      s.nextID,
		Date:    s.clock.Format("2006-01-02T15:04:05"),
		Status:  str(body["status"]),
		Title:   str(body["title"]),
		Content: str(body["content"]),
		ACF:     acf,
	}
	s.posts[p.ID] = p
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, render(p))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(r)
	if !ok {
		writeError(w, http.StatusNotFound, "rest_post_invalid_id", "Invalid post ID.")
		return
	}
	writeJSON(w, http.StatusOK, render(p))
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(r)
	if !ok {
		writeError(w, http.StatusNotFound, "rest_post_invalid_id", "Invalid post ID.")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		writeError(w, http.StatusBadRequest, "rest_invalid_param", "Invalid parameter(s): status")
		return
	}

	s.mu.Lock()
	p.Status = body.Status
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, render(p))
}

func (s *Server) media(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.mediaStatus
	s.mu.Unlock()
	if status != 0 {
		writeError(w, status, "rest_upload_failed", "upload rejected")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "rest_upload_no_data", "No data supplied.")
		return
	}
	defer file.Close()
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		writeError(w, http.StatusUnsupportedMediaType, "rest_upload_sideload_error", "Sorry, this file type is not permitted.")
		return
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, header.Filename)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         len(s.Uploads()),
		"source_url": s.URL + "/wp-content/uploads/" + header.Filename,
	})
}

func (s *Server) lookup(r *http.Request) (*Post, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	return p, ok
}

func render(p *Post) map[string]any {
	var acf any = []any{} // ACF sends an empty array for an empty field group
	if len(p.ACF) > 0 {
		acf = p.ACF
	}
	return map[string]any{
		"id":      p.ID,
		"date":    p.Date,
		"status":  p.Status,
		"title":   map[string]string{"rendered": p.Title},
		"content": map[string]string{"rendered": p.Content},
		"acf":     acf,
	}
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"code": code, "message": msg, "data": map[string]int{"status": status}})
}
