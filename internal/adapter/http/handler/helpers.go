package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/famledger/internal/adapter/http/dto"
	"github.com/iho/famledger/internal/domain"
)

const pgUniqueViolation = "23505"

// sqlStateError is satisfied by *pgconn.PgError.
type sqlStateError interface {
	SQLState() string
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var state sqlStateError

	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrInstallmentGroupNotFound),
		errors.Is(err, domain.ErrRuleNotFound):
		return http.StatusNotFound
	case errors.As(err, &state) && state.SQLState() == pgUniqueViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseMonthQuery reads the required year and month query parameters.
func parseMonthQuery(r *http.Request) (domain.YearMonth, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return domain.YearMonth{}, fmt.Errorf("%w: year must be a number", domain.ErrInvalidPeriod)
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return domain.YearMonth{}, fmt.Errorf("%w: month must be a number", domain.ErrInvalidPeriod)
	}

	ym := domain.YearMonth{Year: year, Month: time.Month(month)}
	if err := ym.Validate(); err != nil {
		return domain.YearMonth{}, err
	}
	return ym, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
