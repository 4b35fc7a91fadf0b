package store

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"mytreviews/internal/reviews"
)

const (
	wpStatusPublish = "publish"
	wpStatusPending = "pending"

	defaultAuthor = "Anonymous"
	defaultRating = 5
)

type wpRendered struct {
	Rendered string `json:"rendered"`
}

// wpReview is a post of the "reviews" custom post type.
type wpReview struct {
	ID      int64      `json:"id"`
	Date    string     `json:"date"`
	Status  string     `json:"status"`
	Title   wpRendered `json:"title"`
	Content wpRendered `json:"content"`
	ACF     wpFields   `json:"acf"`
}

// wpFields are the ACF custom fields of a review post.
type wpFields struct {
	CustomerName  string
	CustomerEmail string
	StarRating    int
	ReviewMessage string
	PhotoURL      string
}

// UnmarshalJSON tolerates ACF's habit of sending [] for an empty field group,
// false for an empty image and strings for numbers.
func (f *wpFields) UnmarshalJSON(b []byte) error {
	*f = wpFields{}
	if !bytes.HasPrefix(bytes.TrimSpace(b), []byte("{")) {
		return nil
	}

	var raw struct {
		CustomerName       json.RawMessage `json:"customer_name"`
		CustomerEmail      json.RawMessage `json:"customer_email"`
		StarRating         json.RawMessage `json:"star_rating"`
		ReviewMessage      json.RawMessage `json:"review_message"`
		PhotoUpload        json.RawMessage `json:"photo_upload"`
		ExperiencePhotoURL json.RawMessage `json:"experience_photo_url"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	f.CustomerName = looseString(raw.CustomerName)
	f.CustomerEmail = looseString(raw.CustomerEmail)
	f.StarRating = looseInt(raw.StarRating)
	f.ReviewMessage = looseString(raw.ReviewMessage)
	f.PhotoURL = photoURL(raw.PhotoUpload)
	if f.PhotoURL == "" {
		f.PhotoURL = looseString(raw.ExperiencePhotoURL)
	}
	return nil
}

func looseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func looseInt(raw json.RawMessage) int {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := strconv.Atoi(n.String()); err == nil {
			return i
		}
	}
	if i, err := strconv.Atoi(looseString(raw)); err == nil {
		return i
	}
	return 0
}

func photoURL(raw json.RawMessage) string {
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.URL != "" {
		return obj.URL
	}
	if s := looseString(raw); strings.HasPrefix(s, "http") {
		return s
	}
	return ""
}

func (p wpReview) toReview() reviews.Review {
	name := p.ACF.CustomerName
	if name == "" {
		name = defaultAuthor
	}

	rating := p.ACF.StarRating
	if rating == 0 {
		rating = defaultRating
	}

	text := p.ACF.ReviewMessage
	if text == "" {
		text = p.Content.Rendered
	}

	title := p.Title.Rendered
	if title == "" {
		title = reviews.TitleFor(name)
	}

	submitted, _, _ := strings.Cut(p.Date, "T")

	return reviews.Review{
		ID:                 p.ID,
		AuthorName:         name,
		AuthorEmail:        p.ACF.CustomerEmail,
		Rating:             rating,
		ReviewText:         text,
		SubmissionDate:     submitted,
		Status:             publicStatus(p.Status),
		ExperiencePhotoURL: p.ACF.PhotoURL,
		Title:              title,
		CreatedAt:          p.Date,
	}
}

// publicStatus renames "publish" to "approved"; every other state passes through.
func publicStatus(s string) reviews.Status {
	if s == wpStatusPublish {
		return reviews.StatusApproved
	}
	return reviews.Status(s)
}

type wpCreatePayload struct {
	Title   string         `json:"title"`
	Status  string         `json:"status"`
	Content string         `json:"content"`
	ACF     wpCreateFields `json:"acf"`
}

type wpCreateFields struct {
	CustomerName       string  `json:"customer_name"`
	CustomerEmail      string  `json:"customer_email"`
	StarRating         int     `json:"star_rating"`
	ReviewMessage      string  `json:"review_message"`
	ExperiencePhotoURL *string `json:"experience_photo_url"`
}

// newCreatePayload always files new reviews as pending moderation.
func newCreatePayload(sub reviews.Submission, photoURL *string) wpCreatePayload {
	return wpCreatePayload{
		Title:   reviews.TitleFor(sub.AuthorName),
		Status:  wpStatusPending,
		Content: sub.ReviewText,
		ACF: wpCreateFields{
			CustomerName:       sub.AuthorName,
			CustomerEmail:      sub.AuthorEmail,
			StarRating:         sub.Rating,
			ReviewMessage:      sub.ReviewText,
			ExperiencePhotoURL: photoURL,
		},
	}
}
