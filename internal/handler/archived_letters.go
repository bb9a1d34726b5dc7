package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

func (h *Handler) GetAllArchivedLetters(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := domain.ArchivedLetterFilter{
		Type:  domain.LetterType(query.Get("type")),
		Query: strings.TrimSpace(query.Get("q")),
	}
	if filter.Type != "" && filter.Type != domain.LetterIncoming && filter.Type != domain.LetterOutgoing {
		h.badRequest(w, r, errors.New("Jenis surat tidak valid"))
		return
	}
	if year := query.Get("year"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1 || y > 9999 {
			h.badRequest(w, r, errors.New("Tahun tidak valid"))
			return
		}
		filter.Year = y
	}

	archived, err := h.repository.ListArchivedLetters(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, archived)
}

func (h *Handler) CreateArchivedLetter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LetterID int64 `json:"letterId" validate:"required,gt=0"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	h.archive(w, r, req.LetterID)
}

func (h *Handler) ArchiveLetter(w http.ResponseWriter, r *http.Request) {
	l := r.Context().Value(LetterCtx).(*domain.Letter)
	h.archive(w, r, l.ID)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request, letterID int64) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	archived, err := h.repository.ArchiveLetter(r.Context(), letterID, myInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Surat tidak ditemukan")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusCreated, map[string]any{
		"message":        "Surat berhasil diarsipkan",
		"archivedLetter": archived,
	})
}

func (h *Handler) GetArchivedLetter(w http.ResponseWriter, r *http.Request) {
	archived := r.Context().Value(ArchivedLetterCtx).(*domain.ArchivedLetter)
	h.writeJSON(w, r, http.StatusOK, archived)
}

func (h *Handler) RestoreArchivedLetter(w http.ResponseWriter, r *http.Request) {
	archived := r.Context().Value(ArchivedLetterCtx).(*domain.ArchivedLetter)

	l, err := h.repository.RestoreArchivedLetter(r.Context(), archived.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Arsip surat tidak ditemukan")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"message": "Surat berhasil dipulihkan dari arsip",
		"letter":  l,
	})
}

func (h *Handler) DeleteArchivedLetter(w http.ResponseWriter, r *http.Request) {
	archived := r.Context().Value(ArchivedLetterCtx).(*domain.ArchivedLetter)

	if err := h.repository.DeleteArchivedLetter(r.Context(), archived.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Arsip surat tidak ditemukan")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.messageResponse(w, r, http.StatusOK, "Arsip surat berhasil dihapus permanen")
}
