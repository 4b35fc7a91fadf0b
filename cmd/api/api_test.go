package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"mytreviews/internal/crm"
	"mytreviews/internal/ratelimiter"
	"mytreviews/internal/store"
	"mytreviews/internal/store/wptest"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestApplication(t *testing.T, st store.Reviews, tagger crm.Tagger) *application {
	t.Helper()

	logger := zaptest.NewLogger(t).Sugar()
	if st == nil {
		st = store.NewMock(logger)
	}
	if tagger == nil {
		tagger = crm.NewMock(logger)
	}

	dispatcher := crm.NewDispatcher(tagger, logger)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dispatcher.Wait(ctx)
	})

	return &application{
		config: config{
			addr: ":3001",
			env:  "test",
			auth: authConfig{basic: basicConfig{user: "admin", pass: "secret"}},
			rateLimiter: ratelimiter.Config{
				RequestsPerTimeFrame: 100,
				TimeFrame:            15 * time.Minute,
				Enabled:              false,
			},
		},
		logger:      logger,
		store:       st,
		crm:         dispatcher,
		rateLimiter: ratelimiter.NewFixedWindowLimiter(100, 15*time.Minute),
	}
}

// newLiveStore points a WordPress store at a fake site.
func newLiveStore(t *testing.T) (store.Reviews, *wptest.Server) {
	t.Helper()
	srv := wptest.New(t)
	cfg := store.Config{BaseURL: srv.URL, User: wptest.User, AppPassword: wptest.Password}
	st, err := store.New(cfg, nil, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	return st, srv
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d", expected, actual)
	}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

type testPhoto struct {
	filename    string
	contentType string
	data        []byte
}

func newMultipartRequest(t *testing.T, fields map[string]string, photo *testPhoto) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photo != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, photo.filename))
		h.Set("Content-Type", photo.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(photo.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"author_name":  "Sarah Johnson",
		"author_email": "Sarah@Example.COM",
		"rating":       "5",
		"review_text":  "The movers were on time and careful with everything.",
	}
}

// smallest valid PNG header, enough for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

// recordingTagger hands every email it is asked to tag to a channel.
type recordingTagger struct {
	emails chan string
}

func newRecordingTagger() *recordingTagger {
	return &recordingTagger{emails: make(chan string, 8)}
}

func (r *recordingTagger) TagReviewReceived(ctx context.Context, email string) (crm.Result, error) {
	r.emails <- email
	return crm.Result{Tagged: true, ContactID: "contact-1"}, nil
}

type failingTagger struct{}

func (failingTagger) TagReviewReceived(ctx context.Context, email string) (crm.Result, error) {
	return crm.Result{}, errors.New("crm is down")
}

// blockingTagger holds every call until release is closed.
type blockingTagger struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingTagger() *blockingTagger {
	return &blockingTagger{started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingTagger) TagReviewReceived(ctx context.Context, email string) (crm.Result, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
		return crm.Result{Tagged: true}, nil
	case <-ctx.Done():
		return crm.Result{}, ctx.Err()
	}
}
