package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"dispatch-console/internal/console/domain"
	"dispatch-console/internal/console/service"
	"dispatch-console/pkg/liststate"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	type errResponse struct {
		Error string `json:"error"`
	}
	writeJSON(w, code, errResponse{Error: msg})
}

// errorStatus maps console errors to HTTP status codes. The websocket
// session reports the same codes in its error messages.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownScreen), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBadCommand),
		errors.Is(err, service.ErrUnknownCommand),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrNoRecipients):
		return http.StatusBadRequest
	case errors.Is(err, liststate.ErrBulkDeleteDisabled),
		errors.Is(err, liststate.ErrExportDisabled),
		errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnsupported):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// publicMessage hides internal failures from clients.
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "Error processing request"
	}
	return err.Error()
}
