package crm

import (
	"context"

	"mytreviews/internal/reviews"

	"go.uber.org/zap"
)

// Mock reports success without any I/O.
type Mock struct {
	logger *zap.SugaredLogger
}

func NewMock(logger *zap.SugaredLogger) *Mock {
	return &Mock{logger: logger}
}

func (m *Mock) TagReviewReceived(ctx context.Context, email string) (Result, error) {
	m.logger.Infow("mock: adding tag to CRM contact", "tag", ReviewReceivedTag, "email", reviews.RedactEmail(email))
	return Result{Tagged: true, ContactID: "mock-contact-id"}, nil
}
