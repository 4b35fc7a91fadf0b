package reviewclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeAPI serves the reviews endpoints with canned envelopes.
type fakeAPI struct {
	*httptest.Server

	lists   atomic.Int32
	submits atomic.Int32

	mu           sync.Mutex
	listStatus   int
	listBody     any
	submitStatus int
	submitBody   any
	onSubmit     func(r *http.Request)
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		listStatus: http.StatusOK,
		listBody: map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 1, "author_name": "Ann", "rating": 5, "review_text": "Lovely work from the team.", "status": "approved"},
				{"id": 2, "author_name": "Bob", "rating": 4, "review_text": "Quick and friendly service.", "status": "approved"},
			},
			"count":   2,
			"message": "Found 2 reviews",
			"source":  "mock",
		},
		submitStatus: http.StatusCreated,
		submitBody: map[string]any{
			"success": true,
			"message": "Thank you! Your review has been submitted (demo mode).",
			"data":    map[string]any{"id": 1737000000000, "status": "pending", "title": "Review from Jo Smith"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reviews", func(w http.ResponseWriter, r *http.Request) {
		f.lists.Add(1)
		f.mu.Lock()
		status, body := f.listStatus, f.listBody
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("POST /api/reviews", func(w http.ResponseWriter, r *http.Request) {
		f.submits.Add(1)
		f.mu.Lock()
		status, body, hook := f.submitStatus, f.submitBody, f.onSubmit
		f.mu.Unlock()

		if hook != nil {
			hook(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) setList(status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listStatus, f.listBody = status, body
}

func (f *fakeAPI) setSubmit(status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitStatus, f.submitBody = status, body
}

func (f *fakeAPI) setOnSubmit(hook func(r *http.Request)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSubmit = hook
}

func form() FormData {
	return FormData{
		AuthorName:  "Jo Smith",
		AuthorEmail: "jo@example.com",
		Rating:      5,
		ReviewText:  "Solid work from start to finish.",
	}
}

func TestClient_ListReviews(t *testing.T) {
	api := newFakeAPI(t)
	c := New(api.URL, zaptest.NewLogger(t).Sugar())

	res, err := c.ListReviews(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "mock", res.Source)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Ann", res.Data[0].AuthorName)
}

func TestClient_ListReviews_ServerError(t *testing.T) {
	api := newFakeAPI(t)
	api.setList(http.StatusInternalServerError, map[string]any{"success": false, "message": "Failed to fetch reviews from WordPress"})
	c := New(api.URL, zaptest.NewLogger(t).Sugar())

	_, err := c.ListReviews(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Failed to fetch reviews from WordPress", apiErr.Message)
}

type receivedForm struct {
	fields    map[string]string
	photoType string
	photoData []byte
}

func TestClient_SubmitReview_Multipart(t *testing.T) {
	api := newFakeAPI(t)
	received := make(chan receivedForm, 1)
	api.setOnSubmit(func(r *http.Request) {
		var got receivedForm
		defer func() { received <- got }()

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		got.fields = map[string]string{
			"author_name":  r.FormValue("author_name"),
			"author_email": r.FormValue("author_email"),
			"rating":       r.FormValue("rating"),
			"review_text":  r.FormValue("review_text"),
		}
		file, header, err := r.FormFile("photo")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		got.photoType = header.Header.Get("Content-Type")
		got.photoData, _ = io.ReadAll(file)
	})
	c := New(api.URL, zaptest.NewLogger(t).Sugar())

	f := form()
	f.Photo = &Photo{Filename: "team.png", Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")}
	res, err := c.SubmitReview(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Data.Status)

	got := <-received
	assert.Equal(t, map[string]string{
		"author_name":  "Jo Smith",
		"author_email": "jo@example.com",
		"rating":       "5",
		"review_text":  "Solid work from start to finish.",
	}, got.fields)
	assert.Equal(t, "image/png", got.photoType)
	assert.Equal(t, f.Photo.Data, got.photoData)
}

func TestClient_SubmitReview_ValidationError(t *testing.T) {
	api := newFakeAPI(t)
	api.setSubmit(http.StatusBadRequest, map[string]any{
		"success": false,
		"message": "Review text must be between 10 and 1000 characters",
		"errors":  []map[string]string{{"field": "review_text", "message": "Review text must be between 10 and 1000 characters"}},
	})
	c := New(api.URL, zaptest.NewLogger(t).Sugar())

	_, err := c.SubmitReview(context.Background(), form())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Len(t, apiErr.Errors, 1)
	assert.Equal(t, "review_text", apiErr.Errors[0].Field)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, zaptest.NewLogger(t).Sugar())
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.ListReviews(context.Background())
	assert.Error(t, err)
}

func TestNew_DefaultBaseURL(t *testing.T) {
	c := New("", nil)
	assert.Equal(t, DefaultBaseURL+"/api", c.baseURL)

	c = New("https://api.example.com/", nil)
	assert.Equal(t, "https://api.example.com/api", c.baseURL)
}
