package store

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"mytreviews/internal/reviews"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PhotoUploader stores a review photo somewhere public and returns its URL.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, photo *reviews.Photo) (string, error)
}

// PhotoRemover is implemented by photo hosts that can take an upload back.
type PhotoRemover interface {
	Delete(ctx context.Context, photoURL string) error
}

// PhotoFilename names an upload after its sniffed type, falling back to .jpg.
func PhotoFilename(data []byte) string {
	ext := mimetype.Detect(data).Extension()
	if ext == "" {
		ext = ".jpg"
	}
	return "review-photo-" + uuid.NewString() + ext
}

// wordPressMedia uploads into the WordPress media library.
type wordPressMedia struct {
	endpoint   string
	user       string
	password   string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func newWordPressMedia(endpoint, user, password string, logger *zap.SugaredLogger) *wordPressMedia {
	return &wordPressMedia{
		endpoint:   endpoint,
		user:       user,
		password:   password,
		httpClient: &http.Client{Timeout: UploadTimeout},
		logger:     logger,
	}
}

func (m *wordPressMedia) UploadPhoto(ctx context.Context, photo *reviews.Photo) (string, error) {
	contentType := photo.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(photo.Data).String()
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, PhotoFilename(photo.Data)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return "", fmt.Errorf("write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(m.user, m.password)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	m.logger.Infow("uploading photo to WordPress media library", "bytes", len(photo.Data))
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", classify(opUploadFile, err)
	}
	defer resp.Body.Close()

	var res struct {
		SourceURL string `json:"source_url"`
	}
	if err := decodeResponse(resp, &res); err != nil {
		return "", err
	}
	if res.SourceURL == "" {
		return "", fmt.Errorf("media upload returned no source_url")
	}
	return res.SourceURL, nil
}
