package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/airshop/internal/domain"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// DecodeJSON reads the request body into dst.
// An empty or malformed body is an EINVALID error.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.Invalid("request.decode", "No data provided")
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return domain.Invalid("request.decode", "No data provided")
	case errors.As(err, &maxErr):
		return domain.Errorf(domain.ETOOLARGE, "request.decode", "Request body too large")
	case errors.As(err, &typeErr):
		return domain.NewValidationError("request.decode", typeErr.Field, "has the wrong type")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return domain.Invalid("request.decode", "Malformed JSON body")
	default:
		return domain.WrapError(err, domain.EINVALID, "request.decode", "Invalid request body")
	}
}

// PathInt64 parses a positive integer path value such as {id}.
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("request.path", name, "must be a positive integer")
	}
	return id, nil
}

// QueryInt32 parses an optional integer query parameter, returning def when absent.
func QueryInt32(r *http.Request, name string, def int32) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, domain.NewValidationError("request.query", name, "must be an integer")
	}
	return int32(v), nil
}
