package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mytreviews/internal/reviews"

	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

// LeadConnector talks to the GoHighLevel contacts API.
type LeadConnector struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func NewLeadConnector(cfg Config, logger *zap.SugaredLogger) *LeadConnector {
	return &LeadConnector{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// TagReviewReceived finds the contact by email and adds the review tag.
// A missing contact is not an error.
func (l *LeadConnector) TagReviewReceived(ctx context.Context, email string) (Result, error) {
	contactID, err := l.findContactByEmail(ctx, email)
	if err != nil {
		return Result{}, fmt.Errorf("find contact: %w", err)
	}
	if contactID == "" {
		l.logger.Infow("no CRM contact found", "email", reviews.RedactEmail(email))
		return Result{Reason: "Contact not found"}, nil
	}

	if err := l.addTags(ctx, contactID, ReviewReceivedTag); err != nil {
		return Result{}, fmt.Errorf("add tag to contact %s: %w", contactID, err)
	}

	l.logger.Infow("added review tag to CRM contact", "contact_id", contactID)
	return Result{Tagged: true, ContactID: contactID}, nil
}

func (l *LeadConnector) findContactByEmail(ctx context.Context, email string) (string, error) {
	q := url.Values{}
	q.Set("email", email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/contacts/lookup?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+l.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup failed: http=%d body=%s", resp.StatusCode, string(raw))
	}

	var res struct {
		Contacts []struct {
			ID string `json:"id"`
		} `json:"contacts"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("lookup decode: %w", err)
	}
	if len(res.Contacts) == 0 {
		return "", nil
	}
	return res.Contacts[0].ID, nil
}

func (l *LeadConnector) addTags(ctx context.Context, contactID string, tags ...string) error {
	body, err := json.Marshal(map[string][]string{"tags": tags})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/contacts/%s/tags", l.baseURL, url.PathEscape(contactID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+l.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("tag failed: http=%d body=%s", resp.StatusCode, string(raw))
	}
	return nil
}
