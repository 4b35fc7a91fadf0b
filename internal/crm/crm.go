// Package crm tags CRM contacts after a review arrives. Tagging is best effort:
// nothing here may hold up or fail the request that triggered it.
package crm

import (
	"context"

	"go.uber.org/zap"
)

const (
	ReviewReceivedTag = "review received"
	DefaultBaseURL    = "https://services.leadconnectorhq.com"
)

// Result is the outcome of a tagging attempt that reached the CRM.
type Result struct {
	Tagged    bool
	ContactID string
	Reason    string
}

type Tagger interface {
	TagReviewReceived(ctx context.Context, email string) (Result, error)
}

type Config struct {
	APIKey  string
	BaseURL string
}

// New returns the LeadConnector client, or a mock when no API key is set.
func New(cfg Config, logger *zap.SugaredLogger) Tagger {
	if cfg.APIKey == "" {
		logger.Warnw("GHL API key not configured, using mock mode")
		return NewMock(logger)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return NewLeadConnector(cfg, logger)
}
