package main

import (
	"errors"
	"fmt"
	"net/http"

	"mytreviews/internal/reviews"
	"mytreviews/internal/store"
)

// errorDetail is only filled in development.
func (app *application) errorDetail(err error) any {
	if !app.config.isDevelopment() || err == nil {
		return nil
	}
	detail := map[string]string{
		"message": err.Error(),
		"type":    fmt.Sprintf("%T", err),
	}
	var se *store.Error
	if errors.As(err, &se) && se.Err != nil {
		detail["cause"] = se.Err.Error()
	}
	return detail
}

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.serverErrorResponse(w, r, "the server encountered a problem", err)
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, message string, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err)

	writeJSON(w, http.StatusInternalServerError, &envelope{
		Message: message,
		Error:   app.errorDetail(err),
	})
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) validationErrorResponse(w http.ResponseWriter, r *http.Request, verr *reviews.ValidationError) {
	app.logger.Warnw("validation failed", "method", r.Method, "path", r.URL.Path, "fields", verr.Fields)

	writeJSON(w, http.StatusBadRequest, &envelope{
		Message: verr.Error(),
		Errors:  verr.Fields,
	})
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path)

	writeJSONError(w, http.StatusNotFound, message)
}

// upstreamErrorResponse maps a store failure: not-found becomes 404, the rest 500.
func (app *application) upstreamErrorResponse(w http.ResponseWriter, r *http.Request, err error, notFound, message string) {
	if errors.Is(err, store.ErrNotFound) && notFound != "" {
		app.notFoundResponse(w, r, notFound)
		return
	}
	app.serverErrorResponse(w, r, message, err)
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfter)
	writeJSONError(w, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
}

func (app *application) routeNotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusNotFound, "Route not found")
}
