// Package handler contains the HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/a11ylens/api/internal/infra/fetchers"
	"github.com/a11ylens/api/internal/infra/http/middleware"
	"github.com/a11ylens/api/pkg/apierror"
	"github.com/a11ylens/api/pkg/domain/shared"
	"github.com/a11ylens/api/pkg/validator"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeError maps domain, fetch, and validation errors to the API
// error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	toAPIError(err).WriteJSON(w, requestID)
}

func toAPIError(err error) *apierror.Error {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return apierror.ValidationFailed("Validation failed", validationErrs)
	}

	if fetchErr, ok := fetchers.AsFetchError(err); ok {
		return fetchErrorToAPIError(fetchErr)
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		switch {
		case shared.IsNotFound(domainErr):
			return apierror.New(http.StatusNotFound, apierror.CodeNotFound, domainErr.Message)
		case errors.Is(domainErr, shared.ErrConflict):
			return apierror.Conflict(domainErr.Message)
		case errors.Is(domainErr, shared.ErrInvalidInput), errors.Is(domainErr, shared.ErrValidation):
			return apierror.ValidationFailed(domainErr.Message, nil)
		}
	}

	switch {
	case errors.Is(err, shared.ErrNotFound):
		return apierror.NotFound("")
	case errors.Is(err, shared.ErrConflict):
		return apierror.Conflict(err.Error())
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrValidation):
		return apierror.ValidationFailed(err.Error(), nil)
	}

	return apierror.InternalError(err)
}

// fetchErrorToAPIError maps fetch failures to upstream error
// statuses: the scanned site failing is the remote side's fault, not
// this API's.
func fetchErrorToAPIError(fetchErr *fetchers.FetchError) *apierror.Error {
	switch fetchErr.Kind {
	case fetchers.KindInvalidURL:
		return apierror.ValidationFailed(fetchErr.Error(), nil)
	case fetchers.KindTimeout:
		return apierror.GatewayTimeout(fetchErr.Error())
	default:
		return apierror.BadGateway(fetchErr.Error())
	}
}

// parseQueryInt parses an integer query parameter, falling back to
// defaultVal when missing or malformed.
func parseQueryInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
