package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork wraps transport failures: refused connections, DNS, timeouts.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse is returned when a 2xx body does not match its DTO.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401/403 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// UserMessage turns err into the short inline text a view shows. fallback
// is used when the backend gave no message of its own.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return "O servidor demorou demais para responder."
	case errors.Is(err, ErrNetwork):
		return "Não foi possível conectar ao servidor. Verifique se o backend está rodando."
	case errors.Is(err, ErrMalformedResponse):
		return "Resposta inválida do servidor."
	case fallback != "":
		return fallback
	default:
		return err.Error()
	}
}
