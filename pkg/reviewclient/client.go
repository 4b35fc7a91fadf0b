// Package reviewclient is the consumer side of the reviews API: an HTTP client
// plus the UI state a review form and list are driven from.
package reviewclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:3001"
	requestTimeout = 10 * time.Second
)

type Review struct {
	ID                 int64  `json:"id"`
	AuthorName         string `json:"author_name"`
	Rating             int    `json:"rating"`
	ReviewText         string `json:"review_text"`
	SubmissionDate     string `json:"submission_date"`
	Status             string `json:"status"`
	ExperiencePhotoURL string `json:"experience_photo_url,omitempty"`
	Title              string `json:"title,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// FormData is the review form as the user filled it in.
type FormData struct {
	AuthorName  string
	AuthorEmail string
	Rating      int
	ReviewText  string
	Photo       *Photo
}

type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Created struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ListResponse struct {
	Success bool     `json:"success"`
	Data    []Review `json:"data"`
	Count   int      `json:"count"`
	Message string   `json:"message"`
	Source  string   `json:"source"`
}

type SubmitResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    Created `json:"data"`
}

// APIError is a non-2xx answer carrying the server's envelope.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// New returns a client for the API at baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string, logger *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

func (c *Client) ListReviews(ctx context.Context) (*ListResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reviews", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var out ListResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitReview posts the form as multipart/form-data.
func (c *Client) SubmitReview(ctx context.Context, form FormData) (*SubmitResponse, error) {
	body, contentType, err := encodeForm(form)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reviews", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	var out SubmitResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func encodeForm(form FormData) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"author_name", form.AuthorName},
		{"author_email", form.AuthorEmail},
		{"rating", strconv.Itoa(form.Rating)},
		{"review_text", form.ReviewText},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if form.Photo != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, form.Photo.Filename))
		contentType := form.Photo.ContentType
		if contentType == "" {
			contentType = mimetype.Detect(form.Photo.Data).String()
		}
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(form.Photo.Data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func (c *Client) do(req *http.Request, out any) error {
	c.logger.Debugw("API request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("API request failed", "method", req.Method, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env struct {
			Message string       `json:"message"`
			Errors  []FieldError `json:"errors"`
		}
		if json.NewDecoder(resp.Body).Decode(&env) == nil {
			apiErr.Message = env.Message
			apiErr.Errors = env.Errors
		}
		c.logger.Warnw("API error", "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
