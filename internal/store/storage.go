package store

import (
	"context"
	"errors"
	"net/url"
	"time"

	"mytreviews/internal/reviews"

	"go.uber.org/zap"
)

var (
	ErrAuthentication = errors.New("upstream rejected credentials")
	ErrNotFound       = errors.New("resource not found")
	ErrPermission     = errors.New("upstream permission denied")
	ErrInvalidPayload = errors.New("upstream rejected payload")
	ErrTransport      = errors.New("upstream unreachable")
	ErrUpstream       = errors.New("upstream error")

	DataTimeout   = 10 * time.Second
	UploadTimeout = 30 * time.Second
)

// Mode says where review data comes from. It is fixed for the process lifetime.
type Mode string

const (
	ModeMock     Mode = "mock"
	ModeUpstream Mode = "upstream"
)

// Reviews is the only component that knows how the upstream CMS stores reviews.
type Reviews interface {
	ListApproved(ctx context.Context) ([]reviews.Review, error)
	Create(ctx context.Context, sub reviews.Submission) (reviews.Created, error)
	GetByID(ctx context.Context, id int64) (*reviews.Review, error)
	UpdateStatus(ctx context.Context, id int64, status reviews.ModerationStatus) (reviews.StatusChange, error)
	TestConnection(ctx context.Context) bool
	Mode() Mode
}

// Config holds the upstream WordPress site and application password.
type Config struct {
	BaseURL     string
	User        string
	AppPassword string
}

// Live reports whether every upstream setting is present.
func (c Config) Live() bool {
	return c.BaseURL != "" && c.User != "" && c.AppPassword != ""
}

// New picks the live WordPress store when cfg is complete and the mock store
// otherwise. photos may be nil, in which case the WordPress media library is used.
func New(cfg Config, photos PhotoUploader, logger *zap.SugaredLogger) (Reviews, error) {
	if !cfg.Live() {
		logger.Warnw("WordPress credentials not configured, using mock mode")
		return NewMock(logger), nil
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, err
	}

	logger.Infow("WordPress store initialized", "url", cfg.BaseURL)
	return NewWordPress(cfg, photos, logger), nil
}
