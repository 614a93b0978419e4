package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/appengine-ltd/agrodm/internal/account"
	"github.com/appengine-ltd/agrodm/internal/logging"
)

const (
	ErrMsgInvalidRequest   = "Invalid request body"
	ErrMsgUnauthorized     = "Login required"
	ErrMsgBadCredentials   = "Invalid email or password"
	ErrMsgEmailTaken       = "Email already registered"
	ErrMsgNotFound         = "Not found"
	ErrMsgInvalidIndex     = "Invalid project index"
	ErrMsgServerError      = "Something went wrong"
	ErrMsgMethodNotAllowed = "Method not allowed"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps account errors to status codes. Unexpected
// errors are logged and reported without detail.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, ErrMsgBadCredentials)
	case errors.Is(err, account.ErrEmailTaken):
		respondError(w, http.StatusConflict, ErrMsgEmailTaken)
	case errors.Is(err, account.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrMsgNotFound)
	case errors.Is(err, account.ErrInvalid):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		logging.FromContext(r.Context()).Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgServerError)
	}
}

var validate = validator.New()

// decodeAndValidate reads a JSON body into dst and checks its struct tags.
// It writes the 400 response itself and reports false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Fields: formatValidationError(err)})
		return false
	}
	return true
}

func formatValidationError(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": ErrMsgInvalidRequest}
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			out[field] = "This field is required"
		case "email":
			out[field] = "Invalid email format"
		case "eqfield":
			out[field] = "Passwords don't match"
		case "min":
			out[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "max":
			out[field] = fmt.Sprintf("Must be at most %s", e.Param())
		default:
			out[field] = "Invalid value"
		}
	}
	return out
}
