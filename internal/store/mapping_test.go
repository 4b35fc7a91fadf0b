package store

import (
	"encoding/json"
	"testing"

	"mytreviews/internal/reviews"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWPReview_ToReview(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want reviews.Review
	}{
		{
			name: "full acf",
			in: `{"id":12,"date":"2025-01-16T10:00:00","status":"publish","title":{"rendered":"Review from Pam"},
				"acf":{"customer_name":"Pam","customer_email":"pam@example.com","star_rating":4,
				"review_message":"Lovely team to work with.","photo_upload":{"url":"https://cdn/x.jpg"}}}`,
			want: reviews.Review{
				ID: 12, AuthorName: "Pam", AuthorEmail: "pam@example.com", Rating: 4,
				ReviewText: "Lovely team to work with.", SubmissionDate: "2025-01-16",
				Status: reviews.StatusApproved, ExperiencePhotoURL: "https://cdn/x.jpg",
				Title: "Review from Pam", CreatedAt: "2025-01-16T10:00:00",
			},
		},
		{
			name: "empty acf array",
			in:   `{"id":3,"date":"2025-01-10T08:00:00","status":"pending","title":{"rendered":""},"content":{"rendered":"body"},"acf":[]}`,
			want: reviews.Review{
				ID: 3, AuthorName: "Anonymous", Rating: 5, ReviewText: "body",
				SubmissionDate: "2025-01-10", Status: reviews.StatusPending,
				Title: "Review from Anonymous", CreatedAt: "2025-01-10T08:00:00",
			},
		},
		{
			name: "image field false and string rating",
			in:   `{"id":4,"date":"2025-01-11T08:00:00","status":"trash","acf":{"customer_name":"Al","star_rating":"2","photo_upload":false,"review_message":"meh experience overall"}}`,
			want: reviews.Review{
				ID: 4, AuthorName: "Al", Rating: 2, ReviewText: "meh experience overall",
				SubmissionDate: "2025-01-11", Status: reviews.StatusTrash,
				Title: "Review from Al", CreatedAt: "2025-01-11T08:00:00",
			},
		},
		{
			name: "photo url stored as plain field",
			in:   `{"id":5,"date":"2025-01-12T08:00:00","status":"draft","acf":{"customer_name":null,"star_rating":null,"experience_photo_url":"https://cdn/y.png"}}`,
			want: reviews.Review{
				ID: 5, AuthorName: "Anonymous", Rating: 5, SubmissionDate: "2025-01-12",
				Status: reviews.StatusDraft, ExperiencePhotoURL: "https://cdn/y.png",
				Title: "Review from Anonymous", CreatedAt: "2025-01-12T08:00:00",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p wpReview
			require.NoError(t, json.Unmarshal([]byte(tc.in), &p))
			assert.Equal(t, tc.want, p.toReview())
		})
	}
}

func TestNewCreatePayload(t *testing.T) {
	url := "https://cdn/p.jpg"
	p := newCreatePayload(submission(), &url)

	assert.Equal(t, "pending", p.Status)
	assert.Equal(t, "Review from Sarah Johnson", p.Title)
	assert.Equal(t, submission().ReviewText, p.Content)
	assert.Equal(t, &url, p.ACF.ExperiencePhotoURL)

	b, err := json.Marshal(newCreatePayload(submission(), nil))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"experience_photo_url":null`)
}
