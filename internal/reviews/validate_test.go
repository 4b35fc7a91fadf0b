package reviews

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		AuthorName:  "Sarah Johnson",
		AuthorEmail: "Sarah@Example.COM",
		Rating:      "4",
		ReviewText:  "Great service and professional team.",
	}
}

func fieldsOf(t *testing.T, err error) []FieldError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr.Fields
}

func TestValidate_AcceptsAndNormalizes(t *testing.T) {
	d := validDraft()
	d.AuthorName = "  Sarah Johnson  "
	d.ReviewText = "   Great service and professional team.   "

	sub, err := Validate(d)
	require.NoError(t, err)

	assert.Equal(t, "Sarah Johnson", sub.AuthorName)
	assert.Equal(t, "Sarah@example.com", sub.AuthorEmail)
	assert.Equal(t, 4, sub.Rating)
	assert.Equal(t, "Great service and professional team.", sub.ReviewText)
}

func TestValidate_RatingRange(t *testing.T) {
	for r := 1; r <= 5; r++ {
		d := validDraft()
		d.Rating = strconv.Itoa(r)
		_, err := Validate(d)
		assert.NoError(t, err, "rating %d", r)
	}

	for _, raw := range []string{"0", "6", "-1", "100", "abc", "", "4.5"} {
		d := validDraft()
		d.Rating = raw
		_, err := Validate(d)
		fields := fieldsOf(t, err)
		require.Len(t, fields, 1, "rating %q", raw)
		assert.Equal(t, "rating", fields[0].Field)
		assert.Equal(t, "Rating must be between 1 and 5", fields[0].Message)
	}
}

func TestValidate_ReviewTextLength(t *testing.T) {
	cases := []struct {
		length int
		ok     bool
	}{
		{9, false},
		{10, true},
		{500, true},
		{1000, true},
		{1001, false},
	}
	for _, tc := range cases {
		d := validDraft()
		d.ReviewText = strings.Repeat("a", tc.length)
		_, err := Validate(d)
		if tc.ok {
			assert.NoError(t, err, "length %d", tc.length)
			continue
		}
		fields := fieldsOf(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, "review_text", fields[0].Field)
	}
}

func TestValidate_TrimmedLengthCounts(t *testing.T) {
	d := validDraft()
	d.ReviewText = "   Short   "
	_, err := Validate(d)
	fields := fieldsOf(t, err)
	assert.Equal(t, "review_text", fields[0].Field)

	d = validDraft()
	d.AuthorName = " J "
	_, err = Validate(d)
	fields = fieldsOf(t, err)
	assert.Equal(t, "author_name", fields[0].Field)
}

func TestValidate_CollectsAllViolationsInOrder(t *testing.T) {
	_, err := Validate(Draft{
		AuthorName:  "J",
		AuthorEmail: "not-an-email",
		Rating:      "9",
		ReviewText:  "short",
		Photo:       &Photo{ContentType: "application/pdf", Data: make([]byte, MaxPhotoBytes+1)},
	})

	fields := fieldsOf(t, err)
	got := make([]string, 0, len(fields))
	for _, f := range fields {
		got = append(got, f.Field)
	}
	assert.Equal(t, []string{"author_name", "author_email", "rating", "review_text", "photo", "photo"}, got)
	assert.Equal(t, "Name must be between 2 and 100 characters", err.Error())
}

func TestValidate_Photo(t *testing.T) {
	d := validDraft()
	d.Photo = &Photo{Filename: "me.png", ContentType: "image/png", Data: make([]byte, MaxPhotoBytes)}
	sub, err := Validate(d)
	require.NoError(t, err)
	require.NotNil(t, sub.Photo)

	d.Photo = &Photo{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}
	_, err = Validate(d)
	fields := fieldsOf(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, FieldError{Field: "photo", Message: "Only image files are allowed for photos"}, fields[0])

	d.Photo = &Photo{Filename: "big.jpg", ContentType: "image/jpeg", Data: make([]byte, MaxPhotoBytes+1)}
	_, err = Validate(d)
	fields = fieldsOf(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, FieldError{Field: "photo", Message: "Photo must not exceed 5MB"}, fields[0])
}

func TestValidate_ShortReviewScenario(t *testing.T) {
	_, err := Validate(Draft{
		AuthorName:  "Jo",
		AuthorEmail: "jo@x.com",
		Rating:      "5",
		ReviewText:  "Short",
	})
	fields := fieldsOf(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "review_text", fields[0].Field)
	assert.Contains(t, fields[0].Message, "10 and 1000 characters")
}

func TestValidateModerationStatus(t *testing.T) {
	for _, s := range []string{"publish", "pending", "draft", "trash"} {
		got, err := ValidateModerationStatus(s)
		require.NoError(t, err)
		assert.Equal(t, ModerationStatus(s), got)
	}

	_, err := ValidateModerationStatus("archived")
	fields := fieldsOf(t, err)
	assert.Equal(t, "status", fields[0].Field)
	assert.Equal(t, "Invalid status. Must be one of: publish, pending, draft, trash", fields[0].Message)

	_, err = ValidateModerationStatus("")
	assert.Error(t, err)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "Jo.Smith@example.com", NormalizeEmail("Jo.Smith@EXAMPLE.com"))
	assert.Equal(t, "nodomain", NormalizeEmail("nodomain"))
}

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "[REDACTED]", RedactEmail("jo@x.com"))
	assert.Equal(t, "Not provided", RedactEmail(""))
}

func TestReviewPublic(t *testing.T) {
	r := Review{ID: 1, AuthorName: "Jo", AuthorEmail: "jo@x.com"}
	assert.Empty(t, r.Public().AuthorEmail)
	assert.Equal(t, "jo@x.com", r.AuthorEmail)
}
