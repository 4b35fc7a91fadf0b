package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mytreviews/internal/reviews"

	"go.uber.org/zap"
)

const (
	listPageSize = 100
	reviewFields = "id,date,status,title,content,acf,meta"
	maxBodyBytes = 4 << 20
)

// WordPress talks to the WP REST API (wp/v2) authenticated with an
// application password.
type WordPress struct {
	apiURL     string
	user       string
	password   string
	httpClient *http.Client
	photos     PhotoUploader
	logger     *zap.SugaredLogger
}

func NewWordPress(cfg Config, photos PhotoUploader, logger *zap.SugaredLogger) *WordPress {
	wp := &WordPress{
		apiURL:     strings.TrimRight(cfg.BaseURL, "/") + "/wp-json/wp/v2",
		user:       cfg.User,
		password:   cfg.AppPassword,
		httpClient: &http.Client{Timeout: DataTimeout},
		photos:     photos,
		logger:     logger,
	}
	if wp.photos == nil {
		wp.photos = newWordPressMedia(wp.apiURL+"/media", cfg.User, cfg.AppPassword, logger)
	}
	return wp
}

func (w *WordPress) Mode() Mode { return ModeUpstream }

func (w *WordPress) ListApproved(ctx context.Context) ([]reviews.Review, error) {
	q := url.Values{}
	q.Set("status", wpStatusPublish)
	q.Set("per_page", strconv.Itoa(listPageSize))
	q.Set("orderby", "date")
	q.Set("order", "desc")
	q.Set("_fields", reviewFields)

	var posts []wpReview
	if err := w.call(ctx, http.MethodGet, "/reviews", q, nil, &posts); err != nil {
		e := classify(opList, err)
		w.logger.Errorw("failed to fetch reviews from WordPress", "error", err, "kind", e.Kind)
		return nil, e
	}

	out := make([]reviews.Review, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.toReview())
	}
	w.logger.Infow("fetched reviews from WordPress", "count", len(out))
	return out, nil
}

// Create uploads the photo first, if any. A failed upload only drops the photo.
func (w *WordPress) Create(ctx context.Context, sub reviews.Submission) (reviews.Created, error) {
	var photoURL *string
	if sub.Photo != nil {
		u, err := w.photos.UploadPhoto(ctx, sub.Photo)
		if err != nil {
			w.logPhotoFailure(err)
		} else {
			photoURL = &u
			w.logger.Infow("photo uploaded", "url", u)
		}
	}

	payload := newCreatePayload(sub, photoURL)
	w.logger.Infow("creating review in WordPress",
		"title", payload.Title,
		"rating", payload.ACF.StarRating,
		"author_email", reviews.RedactEmail(payload.ACF.CustomerEmail),
		"has_photo", photoURL != nil,
	)

	var res struct {
		ID     int64      `json:"id"`
		Status string     `json:"status"`
		Title  wpRendered `json:"title"`
	}
	if err := w.call(ctx, http.MethodPost, "/reviews", nil, payload, &res); err != nil {
		e := classify(opCreate, err)
		w.logger.Errorw("failed to create review in WordPress", "error", err, "kind", e.Kind)
		if photoURL != nil {
			w.discardPhoto(ctx, *photoURL)
		}
		return reviews.Created{}, e
	}

	created := reviews.Created{ID: res.ID, Status: res.Status, Title: res.Title.Rendered}
	if created.Title == "" {
		created.Title = payload.Title
	}
	if created.Status == "" {
		created.Status = wpStatusPending
	}
	w.logger.Infow("review created", "id", created.ID)
	return created, nil
}

// discardPhoto removes an orphaned upload when the host supports it.
func (w *WordPress) discardPhoto(ctx context.Context, photoURL string) {
	remover, ok := w.photos.(PhotoRemover)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DataTimeout)
	defer cancel()
	if err := remover.Delete(ctx, photoURL); err != nil {
		w.logger.Warnw("failed to remove orphaned photo", "url", photoURL, "error", err)
	}
}

func (w *WordPress) logPhotoFailure(err error) {
	var re *responseError
	if errors.As(err, &re) {
		switch re.Status {
		case http.StatusRequestEntityTooLarge:
			w.logger.Warnw("photo too large, skipping upload")
			return
		case http.StatusUnsupportedMediaType:
			w.logger.Warnw("unsupported photo format, skipping upload")
			return
		}
	}
	w.logger.Warnw("photo upload failed, creating review without photo", "error", err)
}

func (w *WordPress) GetByID(ctx context.Context, id int64) (*reviews.Review, error) {
	q := url.Values{}
	q.Set("_fields", reviewFields)

	var post wpReview
	if err := w.call(ctx, http.MethodGet, fmt.Sprintf("/reviews/%d", id), q, nil, &post); err != nil {
		e := classify(opGet, err)
		if errors.Is(e, ErrNotFound) {
			w.logger.Infow("review not found", "id", id)
		} else {
			w.logger.Errorw("failed to fetch review", "id", id, "error", err)
		}
		return nil, e
	}

	r := post.toReview()
	return &r, nil
}

// UpdateStatus does not check the current status; any transition is allowed.
func (w *WordPress) UpdateStatus(ctx context.Context, id int64, status reviews.ModerationStatus) (reviews.StatusChange, error) {
	body := map[string]string{"status": string(status)}

	var res struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := w.call(ctx, http.MethodPost, fmt.Sprintf("/reviews/%d", id), nil, body, &res); err != nil {
		e := classify(opUpdate, err)
		w.logger.Errorw("failed to update review status", "id", id, "status", status, "error", err)
		return reviews.StatusChange{}, e
	}

	w.logger.Infow("review status updated", "id", res.ID, "status", res.Status)
	return reviews.StatusChange{ID: res.ID, Status: res.Status}, nil
}

// TestConnection probes the API root and then the reviews endpoint.
func (w *WordPress) TestConnection(ctx context.Context) bool {
	var root struct {
		Name string `json:"name"`
	}
	q := url.Values{}
	q.Set("_fields", "name,description")
	if err := w.call(ctx, http.MethodGet, "/", q, nil, &root); err != nil {
		w.logger.Warnw("WordPress connection test failed", "error", err)
		return false
	}

	q = url.Values{}
	q.Set("per_page", "1")
	q.Set("_fields", "id")
	if err := w.call(ctx, http.MethodGet, "/reviews", q, nil, nil); err != nil {
		w.logger.Warnw("WordPress reviews endpoint not reachable", "error", err)
		return false
	}

	w.logger.Infow("WordPress connection successful", "site", root.Name)
	return true
}

func (w *WordPress) call(ctx context.Context, method, path string, q url.Values, payload, out any) error {
	endpoint := w.apiURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(w.user, w.password)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w.logger.Debugw("WordPress API request", "method", method, "path", path)
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		re := &responseError{Status: resp.StatusCode}
		var wpErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &wpErr) == nil {
			re.Code = wpErr.Code
			re.Message = wpErr.Message
		}
		return re
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
