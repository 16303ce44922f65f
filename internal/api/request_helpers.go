package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/choreclock/internal/api/shared"
	"github.com/phrazzld/choreclock/internal/domain"
)

// getPathParam extracts a required path parameter.
func getPathParam(r *http.Request, paramName string) (string, error) {
	value := chi.URLParam(r, paramName)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}
	return value, nil
}

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	value, err := getPathParam(r, paramName)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrValidation, paramName)
	}
	return id, nil
}

// decodeProfileRequest reads and validates the {"profile_id": ...} body.
func decodeProfileRequest(r *http.Request) (ProfileRequest, error) {
	var req ProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			return req, err
		}
		return req, fmt.Errorf("%w: malformed request body: %w", domain.ErrValidation, err)
	}
	if err := shared.ValidateRequest(req); err != nil {
		return req, err
	}
	return req, nil
}

// getQueryInt parses an optional integer query parameter in [min, max].
func getQueryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("%w: %s must be between %d and %d", domain.ErrValidation, name, min, max)
	}
	return n, nil
}
