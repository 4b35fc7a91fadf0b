package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mytreviews/internal/reviews"
	"mytreviews/internal/store"

	"github.com/go-chi/chi/v5"
)

const (
	// multipart overhead allowed on top of the photo itself
	maxFormBytes    = 1 << 20
	multipartMemory = 8 << 20

	msgSubmittedMock = "Thank you! Your review has been submitted (demo mode)."
	msgSubmittedLive = "Thank you! Your review has been submitted and is pending approval."
)

type listReviewsResponse struct {
	Success bool             `json:"success"`
	Data    []reviews.Review `json:"data"`
	Count   int              `json:"count"`
	Message string           `json:"message"`
	Source  store.Mode       `json:"source"`
}

// listReviewsHandler godoc
//
//	@Summary		List approved reviews
//	@Description	Returns every published review, newest first. Reviewer emails are never included.
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{object}	listReviewsResponse
//	@Failure		500	{object}	envelope
//	@Router			/api/reviews [get]
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if app.store.Mode() == store.ModeUpstream && !app.store.TestConnection(ctx) {
		app.logger.Warnw("WordPress connection test failed, fetching reviews anyway")
	}

	list, err := app.store.ListApproved(ctx)
	if err != nil {
		app.serverErrorResponse(w, r, "Failed to fetch reviews from WordPress", err)
		return
	}

	public := make([]reviews.Review, len(list))
	for i, rv := range list {
		public[i] = rv.Public()
	}

	message := "Reviews loaded successfully"
	if len(public) == 0 {
		message = "No reviews found"
	}

	res := listReviewsResponse{
		Success: true,
		Data:    public,
		Count:   len(public),
		Message: message,
		Source:  app.store.Mode(),
	}
	if err := writeJSON(w, http.StatusOK, res); err != nil {
		app.internalServerError(w, r, err)
	}
}

// submitReviewPayload is the JSON alternative to the multipart form.
// rating may be sent as a number or a string. Unknown keys are ignored.
type submitReviewPayload struct {
	AuthorName  string          `json:"author_name"`
	AuthorEmail string          `json:"author_email"`
	Rating      json.RawMessage `json:"rating" swaggertype:"integer"`
	ReviewText  string          `json:"review_text"`
}

// submitReviewHandler godoc
//
//	@Summary		Submit a review
//	@Description	Accepts multipart/form-data (with an optional "photo" file) or JSON. New reviews wait for moderation.
//	@Tags			reviews
//	@Accept			mpfd
//	@Accept			json
//	@Produce		json
//	@Param			author_name		formData	string	true	"Reviewer name (2-100 chars)"
//	@Param			author_email	formData	string	true	"Reviewer email"
//	@Param			rating			formData	int		true	"Star rating"	minimum(1)	maximum(5)
//	@Param			review_text		formData	string	true	"Review (10-1000 chars)"
//	@Param			photo			formData	file	false	"Experience photo, image only, up to 5MB"
//	@Success		201				{object}	envelope{data=reviews.Created}
//	@Failure		400				{object}	envelope
//	@Failure		500				{object}	envelope
//	@Router			/api/reviews [post]
func (app *application) submitReviewHandler(w http.ResponseWriter, r *http.Request) {
	draft, err := app.readDraft(w, r)
	if err != nil {
		var verr *reviews.ValidationError
		if errors.As(err, &verr) {
			app.validationErrorResponse(w, r, verr)
			return
		}
		app.badRequestResponse(w, r, err)
		return
	}

	sub, err := reviews.Validate(draft)
	if err != nil {
		var verr *reviews.ValidationError
		if errors.As(err, &verr) {
			app.validationErrorResponse(w, r, verr)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("review submission received",
		"author_name", sub.AuthorName,
		"author_email", reviews.RedactEmail(sub.AuthorEmail),
		"rating", sub.Rating,
		"has_photo", sub.Photo != nil,
	)

	created, err := app.store.Create(r.Context(), sub)
	if err != nil {
		message := "Failed to submit review. Please try again."
		var se *store.Error
		if errors.As(err, &se) && se.Message != "" {
			message = se.Message
		}
		app.serverErrorResponse(w, r, message, err)
		return
	}

	message := msgSubmittedLive
	if app.store.Mode() == store.ModeMock {
		message = msgSubmittedMock
	}

	if err := app.jsonResponse(w, http.StatusCreated, message, created); err != nil {
		app.logger.Errorw("failed to write response", "error", err)
	}

	app.crm.TagReviewReceived(r.Context(), sub.AuthorEmail)
}

// readDraft accepts multipart, urlencoded and JSON bodies.
func (app *application) readDraft(w http.ResponseWriter, r *http.Request) (reviews.Draft, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var payload submitReviewPayload
		if err := readLooseJSON(w, r, &payload); err != nil {
			return reviews.Draft{}, err
		}
		return reviews.Draft{
			AuthorName:  payload.AuthorName,
			AuthorEmail: payload.AuthorEmail,
			Rating:      strings.Trim(string(payload.Rating), `"`),
			ReviewText:  payload.ReviewText,
		}, nil

	case "multipart/form-data":
		return app.readMultipartDraft(w, r)

	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			return reviews.Draft{}, err
		}
		return draftFromForm(r), nil
	}
}

func (app *application) readMultipartDraft(w http.ResponseWriter, r *http.Request) (reviews.Draft, error) {
	r.Body = http.MaxBytesReader(w, r.Body, reviews.MaxPhotoBytes+maxFormBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return reviews.Draft{}, &reviews.ValidationError{Fields: []reviews.FieldError{{
				Field:   "photo",
				Message: "Photo must not exceed 5MB",
			}}}
		}
		return reviews.Draft{}, err
	}
	defer r.MultipartForm.RemoveAll()

	draft := draftFromForm(r)

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return draft, nil
	case err != nil:
		return reviews.Draft{}, err
	}
	defer file.Close()

	// one byte past the limit is enough for validation to reject it
	data, err := io.ReadAll(io.LimitReader(file, reviews.MaxPhotoBytes+1))
	if err != nil {
		return reviews.Draft{}, err
	}

	draft.Photo = &reviews.Photo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	return draft, nil
}

func draftFromForm(r *http.Request) reviews.Draft {
	return reviews.Draft{
		AuthorName:  r.FormValue("author_name"),
		AuthorEmail: r.FormValue("author_email"),
		Rating:      r.FormValue("rating"),
		ReviewText:  r.FormValue("review_text"),
	}
}

// parseReviewID accepts positive integers only.
func parseReviewID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("Invalid review ID provided")
	}
	return id, nil
}

// getReviewHandler godoc
//
//	@Summary		Get a review
//	@Description	Returns a single review in any status. The reviewer email is never included.
//	@Tags			reviews
//	@Produce		json
//	@Param			reviewID	path		int	true	"Review ID"
//	@Success		200			{object}	envelope{data=reviews.Review}
//	@Failure		400			{object}	envelope
//	@Failure		404			{object}	envelope
//	@Failure		500			{object}	envelope
//	@Router			/api/reviews/{reviewID} [get]
func (app *application) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseReviewID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.store.GetByID(r.Context(), id)
	if err != nil {
		app.upstreamErrorResponse(w, r, err,
			fmt.Sprintf("Review with ID %d not found", id),
			fmt.Sprintf("Failed to fetch review with ID %d", id),
		)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, "Review retrieved successfully", review.Public()); err != nil {
		app.internalServerError(w, r, err)
	}
}

type updateStatusPayload struct {
	Status string `json:"status" example:"publish"`
}

// updateReviewStatusHandler godoc
//
//	@Summary		Moderate a review
//	@Description	Moves a review to publish, pending, draft or trash. Any transition is allowed.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			reviewID	path		int					true	"Review ID"
//	@Param			payload		body		updateStatusPayload	true	"New status"
//	@Success		200			{object}	envelope{data=reviews.StatusChange}
//	@Failure		400			{object}	envelope
//	@Failure		404			{object}	envelope
//	@Failure		500			{object}	envelope
//	@Router			/api/reviews/{reviewID}/status [put]
func (app *application) updateReviewStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseReviewID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload updateStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	status, err := reviews.ValidateModerationStatus(payload.Status)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	change, err := app.store.UpdateStatus(r.Context(), id, status)
	if err != nil {
		app.upstreamErrorResponse(w, r, err,
			fmt.Sprintf("Review with ID %d not found", id),
			"Failed to update review status",
		)
		return
	}

	message := fmt.Sprintf("Review status updated to %s", status)
	if err := app.jsonResponse(w, http.StatusOK, message, change); err != nil {
		app.internalServerError(w, r, err)
	}
}

type connectionResponse struct {
	Success   bool   `json:"success"`
	Connected bool   `json:"connected"`
	MockMode  bool   `json:"mockMode"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// testConnectionHandler godoc
//
//	@Summary		Check the WordPress connection
//	@Description	Always answers 200; "connected" carries the outcome.
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{object}	connectionResponse
//	@Router			/api/reviews/test-connection [get]
func (app *application) testConnectionHandler(w http.ResponseWriter, r *http.Request) {
	mockMode := app.store.Mode() == store.ModeMock
	connected := app.store.TestConnection(r.Context())

	var message string
	switch {
	case mockMode:
		message = "Running in mock mode. Configure WordPress credentials to connect."
	case connected:
		message = "WordPress connection successful"
	default:
		message = "WordPress connection failed"
	}

	res := connectionResponse{
		Success:   true,
		Connected: connected,
		MockMode:  mockMode,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := writeJSON(w, http.StatusOK, res); err != nil {
		app.internalServerError(w, r, err)
	}
}
