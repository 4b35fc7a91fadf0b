package reviews

// Status is the public lifecycle state of a review.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDraft    Status = "draft"
	StatusTrash    Status = "trash"
)

// ModerationStatus is a state a moderator may move a review into.
// "publish" is what the public shape calls "approved".
type ModerationStatus string

const (
	ModerationPublish ModerationStatus = "publish"
	ModerationPending ModerationStatus = "pending"
	ModerationDraft   ModerationStatus = "draft"
	ModerationTrash   ModerationStatus = "trash"
)

var ModerationStatuses = []ModerationStatus{
	ModerationPublish,
	ModerationPending,
	ModerationDraft,
	ModerationTrash,
}

type Review struct {
	ID                 int64  `json:"id"`
	AuthorName         string `json:"author_name"`
	AuthorEmail        string `json:"author_email,omitempty"`
	Rating             int    `json:"rating"`
	ReviewText         string `json:"review_text"`
	SubmissionDate     string `json:"submission_date"`
	Status             Status `json:"status"`
	ExperiencePhotoURL string `json:"experience_photo_url,omitempty"`
	Title              string `json:"title,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// Public strips fields that must not be shown to other visitors.
func (r Review) Public() Review {
	r.AuthorEmail = ""
	return r
}

// Draft is a submission exactly as it arrived, before validation.
type Draft struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Rating      string `json:"rating"`
	ReviewText  string `json:"review_text"`
	Photo       *Photo `json:"-"`
}

// Submission is a validated, normalized review ready for the upstream store.
type Submission struct {
	AuthorName  string `json:"author_name" validate:"min=2,max=100"`
	AuthorEmail string `json:"author_email" validate:"required,email"`
	Rating      int    `json:"rating" validate:"min=1,max=5"`
	ReviewText  string `json:"review_text" validate:"min=10,max=1000"`
	Photo       *Photo `json:"-"`
}

// Photo is an image attached to a submission.
type Photo struct {
	Filename    string `json:"-"`
	ContentType string `json:"-" validate:"startswith=image/"`
	Data        []byte `json:"-" validate:"max=5242880"`
}

// Created is what the upstream store hands back for a new review.
type Created struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

// StatusChange is the result of a moderation status update.
type StatusChange struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// TitleFor is the upstream title given to a new review.
func TitleFor(authorName string) string {
	return "Review from " + authorName
}
