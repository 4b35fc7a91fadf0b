package store

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"mytreviews/internal/reviews"

	"go.uber.org/zap"
)

// Mock serves canned reviews without any network I/O.
type Mock struct {
	logger *zap.SugaredLogger
	now    func() time.Time
	lastID atomic.Int64
}

func NewMock(logger *zap.SugaredLogger) *Mock {
	return &Mock{logger: logger, now: time.Now}
}

func (m *Mock) Mode() Mode { return ModeMock }

func (m *Mock) ListApproved(ctx context.Context) ([]reviews.Review, error) {
	m.logger.Infow("using mock reviews data")
	return mockReviews(), nil
}

func (m *Mock) Create(ctx context.Context, sub reviews.Submission) (reviews.Created, error) {
	m.logger.Infow("mock: creating review",
		"author_name", sub.AuthorName,
		"author_email", reviews.RedactEmail(sub.AuthorEmail),
		"rating", sub.Rating,
		"has_photo", sub.Photo != nil,
	)
	return reviews.Created{
		ID:     m.nextID(),
		Status: wpStatusPending,
		Title:  reviews.TitleFor(sub.AuthorName),
	}, nil
}

// nextID is the submission time in milliseconds, bumped past the previous id
// so back-to-back submissions never collide.
func (m *Mock) nextID() int64 {
	for {
		last := m.lastID.Load()
		id := m.now().UnixMilli()
		if id <= last {
			id = last + 1
		}
		if m.lastID.CompareAndSwap(last, id) {
			return id
		}
	}
}

func (m *Mock) GetByID(ctx context.Context, id int64) (*reviews.Review, error) {
	for _, r := range mockReviews() {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, &Error{
		Op:      opGet,
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("Review with ID %d not found", id),
	}
}

func (m *Mock) UpdateStatus(ctx context.Context, id int64, status reviews.ModerationStatus) (reviews.StatusChange, error) {
	m.logger.Infow("mock: updating review status", "id", id, "status", status)
	return reviews.StatusChange{ID: id, Status: string(status)}, nil
}

func (m *Mock) TestConnection(ctx context.Context) bool {
	m.logger.Infow("mock mode, connection test skipped")
	return true
}

func mockReviews() []reviews.Review {
	return []reviews.Review{
		{
			ID:                 1,
			AuthorName:         "Dr. Pamela Bynum",
			AuthorEmail:        "pamela@example.com",
			Rating:             5,
			ReviewText:         "The team at mytCreative is truly dedicated to their mission. Their innovative approach to technology and education is making a real impact in the community.",
			SubmissionDate:     "2025-01-16",
			Status:             reviews.StatusApproved,
			ExperiencePhotoURL: "https://images.pexels.com/photos/3184291/pexels-photo-3184291.jpeg?auto=compress&cs=tinysrgb&w=400",
			Title:              "Review from Dr. Pamela Bynum",
			CreatedAt:          "2025-01-16T10:00:00Z",
		},
		{
			ID:             2,
			AuthorName:     "Denzel The Intern",
			AuthorEmail:    "denzel@example.com",
			Rating:         5,
			ReviewText:     "Working here has been an amazing learning experience. I get to work on real projects that help businesses and learn about cutting-edge technology.",
			SubmissionDate: "2025-01-15",
			Status:         reviews.StatusApproved,
			Title:          "Review from Denzel The Intern",
			CreatedAt:      "2025-01-15T14:30:00Z",
		},
		{
			ID:                 3,
			AuthorName:         "Sarah Johnson",
			AuthorEmail:        "sarah@example.com",
			Rating:             4,
			ReviewText:         "Great service and professional team. They delivered exactly what we needed for our business. Highly recommend their expertise.",
			SubmissionDate:     "2025-01-14",
			Status:             reviews.StatusApproved,
			ExperiencePhotoURL: "https://images.pexels.com/photos/3184338/pexels-photo-3184338.jpeg?auto=compress&cs=tinysrgb&w=400",
			Title:              "Review from Sarah Johnson",
			CreatedAt:          "2025-01-14T09:15:00Z",
		},
	}
}
