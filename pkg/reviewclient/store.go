package reviewclient

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

const (
	msgFetchFailed     = "Failed to load reviews. Please check your connection and try again."
	msgSubmitFailed    = "Failed to submit review. Please try again."
	msgSubmitSucceeded = "Review submitted successfully!"
)

var ErrSubmitInProgress = errors.New("A review is already being submitted. Please wait.")

// State is a point-in-time copy of what the UI renders.
type State struct {
	Reviews    []Review
	Loading    bool
	Submitting bool
	Error      string
}

type SubmitResult struct {
	Success bool
	Message string
	Data    *Created
	Error   string
}

// Store holds the review list and the form's progress flags. At most one
// error is kept; starting an operation clears it.
type Store struct {
	client *Client
	logger *zap.SugaredLogger

	mu         sync.Mutex
	reviews    []Review
	loading    bool
	submitting bool
	err        string
}

func NewStore(client *Client, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{client: client, logger: logger}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]Review, len(s.reviews))
	copy(list, s.reviews)
	return State{
		Reviews:    list,
		Loading:    s.loading,
		Submitting: s.submitting,
		Error:      s.err,
	}
}

// FetchReviews replaces the list wholesale. On failure the previous list stays.
func (s *Store) FetchReviews(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	res, err := s.client.ListReviews(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.logger.Errorw("error fetching reviews", "error", err)
		s.err = msgFetchFailed
		return err
	}

	if res.Success {
		s.reviews = res.Data
	} else {
		s.reviews = nil
	}
	return nil
}

// SubmitReview sends the form and, on success, reloads the list before
// returning. A second call while one is in flight is rejected.
func (s *Store) SubmitReview(ctx context.Context, form FormData) SubmitResult {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return SubmitResult{Error: ErrSubmitInProgress.Error()}
	}
	s.submitting = true
	s.err = ""
	s.mu.Unlock()

	res, err := s.client.SubmitReview(ctx, form)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		msg := submitErrorMessage(err)
		s.err = msg
		s.mu.Unlock()
		s.logger.Errorw("error submitting review", "error", err)
		return SubmitResult{Error: msg}
	}
	s.mu.Unlock()

	// the list reports its own failure through the error field
	_ = s.FetchReviews(ctx)

	message := res.Message
	if message == "" {
		message = msgSubmitSucceeded
	}
	data := res.Data
	return SubmitResult{Success: true, Message: message, Data: &data}
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// submitErrorMessage prefers what the server said.
func submitErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return msgSubmitFailed
}
