package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("format data permintaan tidak valid")

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errMalformedBody
	}
	return nil
}

// decode reads the body into v and validates it. It writes the 400 response itself and reports
// whether the handler may continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := h.readJSON(w, r, v); err != nil {
		h.badRequest(w, r, err)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.badRequest(w, r, err)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, ErrorResponse{Error: msg})
}

func (h *Handler) messageResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, MessageResponse{Message: msg})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
}

func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusUnauthorized, msg)
}

func (h *Handler) forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusForbidden, msg)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusNotFound, msg)
}

func (h *Handler) conflict(w http.ResponseWriter, r *http.Request) {
	h.errorResponse(w, r, http.StatusConflict, "Data telah diubah oleh pengguna lain, silakan muat ulang")
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.errorResponse(w, r, http.StatusInternalServerError, "Terjadi kesalahan pada server")
}
