package reviews

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const MaxPhotoBytes = 5 * 1024 * 1024 // 5MB

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names so field errors line up with the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"author_name":  "Name must be between 2 and 100 characters",
	"author_email": "Please provide a valid email address",
	"rating":       "Rating must be between 1 and 5",
	"review_text":  "Review text must be between 10 and 1000 characters",
}

const (
	msgPhotoType = "Only image files are allowed for photos"
	msgPhotoSize = "Photo must not exceed 5MB"
)

// FieldError describes one violated field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}

// Validate checks a draft and returns the normalized submission.
// All violations are collected; the error is a *ValidationError.
func Validate(d Draft) (Submission, error) {
	sub := Submission{
		AuthorName:  strings.TrimSpace(d.AuthorName),
		AuthorEmail: strings.TrimSpace(d.AuthorEmail),
		ReviewText:  strings.TrimSpace(d.ReviewText),
		Photo:       d.Photo,
	}

	// a non-numeric rating stays 0 and fails the range check
	if n, err := strconv.Atoi(strings.TrimSpace(d.Rating)); err == nil {
		sub.Rating = n
	}

	err := validate.Struct(sub)
	if err == nil {
		sub.AuthorEmail = NormalizeEmail(sub.AuthorEmail)
		return sub, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Submission{}, err
	}

	out := &ValidationError{}
	seen := make(map[string]bool)
	for _, fe := range verrs {
		field, msg := describe(fe)
		if seen[field+msg] {
			continue
		}
		seen[field+msg] = true
		out.Fields = append(out.Fields, FieldError{Field: field, Message: msg})
	}
	return Submission{}, out
}

func describe(fe validator.FieldError) (string, string) {
	if strings.Contains(fe.StructNamespace(), ".Photo.") {
		if fe.StructField() == "Data" {
			return "photo", msgPhotoSize
		}
		return "photo", msgPhotoType
	}
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return fe.Field(), msg
	}
	return fe.Field(), fe.Error()
}

// ValidateModerationStatus rejects anything outside publish, pending, draft and trash.
func ValidateModerationStatus(status string) (ModerationStatus, error) {
	names := make([]string, len(ModerationStatuses))
	for i, s := range ModerationStatuses {
		names[i] = string(s)
	}

	if err := validate.Var(status, "required,oneof="+strings.Join(names, " ")); err != nil {
		return "", &ValidationError{Fields: []FieldError{{
			Field:   "status",
			Message: "Invalid status. Must be one of: " + strings.Join(names, ", "),
		}}}
	}
	return ModerationStatus(status), nil
}

// NormalizeEmail lower-cases the domain part of an address.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// RedactEmail is what gets logged in place of an address.
func RedactEmail(email string) string {
	if email == "" {
		return "Not provided"
	}
	return "[REDACTED]"
}
