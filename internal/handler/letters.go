package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

// letterFilter reads the type, status, priority and q query parameters.
func (h *Handler) letterFilter(w http.ResponseWriter, r *http.Request) (domain.LetterFilter, bool) {
	params := struct {
		Type     string `json:"type" validate:"omitempty,oneof=incoming outgoing"`
		Status   string `json:"status" validate:"omitempty,oneof=draft diterima menunggu_persetujuan disetujui ditolak disposisi selesai dikirim"`
		Priority string `json:"priority" validate:"omitempty,oneof=rendah sedang tinggi"`
	}{
		Type:     r.URL.Query().Get("type"),
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}
	if err := h.validate.Struct(params); err != nil {
		h.badRequest(w, r, err)
		return domain.LetterFilter{}, false
	}

	return domain.LetterFilter{
		Type:     domain.LetterType(params.Type),
		Status:   domain.LetterStatus(params.Status),
		Priority: domain.Priority(params.Priority),
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
	}, true
}

func (h *Handler) GetAllLetters(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.letterFilter(w, r)
	if !ok {
		return
	}

	letters, err := h.repository.ListLetters(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, letters)
}

func (h *Handler) CreateLetter(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Type         string `json:"type" validate:"required,oneof=incoming outgoing"`
		Subject      string `json:"subject" validate:"required,max=255"`
		Sender       string `json:"sender" validate:"required,max=255"`
		Recipient    string `json:"recipient" validate:"required,max=255"`
		LetterNumber string `json:"letterNumber" validate:"max=50"`
		Priority     string `json:"priority" validate:"omitempty,oneof=rendah sedang tinggi"`
		Status       string `json:"status" validate:"omitempty,oneof=draft diterima menunggu_persetujuan disetujui ditolak disposisi selesai dikirim"`
		Content      string `json:"content"`
		Attachment   string `json:"attachment" validate:"max=255"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	l := &domain.Letter{
		Type:         domain.LetterType(req.Type),
		Subject:      strings.TrimSpace(req.Subject),
		Sender:       strings.TrimSpace(req.Sender),
		Recipient:    strings.TrimSpace(req.Recipient),
		LetterNumber: strings.TrimSpace(req.LetterNumber),
		Priority:     domain.Priority(req.Priority),
		Status:       domain.LetterStatus(req.Status),
		Content:      req.Content,
		Attachment:   req.Attachment,
		CreatedBy:    &myInfo.ID,
	}
	if l.Priority == "" {
		l.Priority = domain.PrioritySedang
	}
	if l.Status == "" {
		// incoming mail is logged as received, outgoing mail starts as a draft
		l.Status = domain.StatusDraft
		if l.Type == domain.LetterIncoming {
			l.Status = domain.StatusDiterima
		}
	}

	if err := h.repository.CreateLetter(r.Context(), l); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, l)
}

func (h *Handler) GetLetter(w http.ResponseWriter, r *http.Request) {
	l := r.Context().Value(LetterCtx).(*domain.Letter)
	h.writeJSON(w, r, http.StatusOK, l)
}

func (h *Handler) UpdateLetter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type         *string `json:"type" validate:"omitempty,oneof=incoming outgoing"`
		Subject      *string `json:"subject" validate:"omitempty,min=1,max=255"`
		Sender       *string `json:"sender" validate:"omitempty,min=1,max=255"`
		Recipient    *string `json:"recipient" validate:"omitempty,min=1,max=255"`
		LetterNumber *string `json:"letterNumber" validate:"omitempty,max=50"`
		Priority     *string `json:"priority" validate:"omitempty,oneof=rendah sedang tinggi"`
		Status       *string `json:"status" validate:"omitempty,oneof=draft diterima menunggu_persetujuan disetujui ditolak disposisi selesai dikirim"`
		Content      *string `json:"content"`
		Attachment   *string `json:"attachment" validate:"omitempty,max=255"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	l := r.Context().Value(LetterCtx).(*domain.Letter)

	changed := false
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			changed = true
		}
	}
	set(&l.Subject, req.Subject)
	set(&l.Sender, req.Sender)
	set(&l.Recipient, req.Recipient)
	set(&l.LetterNumber, req.LetterNumber)
	set(&l.Attachment, req.Attachment)
	if req.Content != nil {
		l.Content = *req.Content
		changed = true
	}
	if req.Type != nil {
		l.Type = domain.LetterType(*req.Type)
		changed = true
	}
	if req.Priority != nil {
		l.Priority = domain.Priority(*req.Priority)
		changed = true
	}
	if req.Status != nil {
		l.Status = domain.LetterStatus(*req.Status)
		changed = true
	}

	if !changed {
		h.badRequest(w, r, errors.New("Tidak ada data yang diperbarui"))
		return
	}

	if err := h.repository.UpdateLetter(r.Context(), l); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, l)
}

func (h *Handler) DeleteLetter(w http.ResponseWriter, r *http.Request) {
	l := r.Context().Value(LetterCtx).(*domain.Letter)

	if err := h.repository.DeleteLetter(r.Context(), l.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Surat tidak ditemukan")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.messageResponse(w, r, http.StatusOK, "Surat berhasil dihapus")
}

func (h *Handler) ApproveLetter(w http.ResponseWriter, r *http.Request) {
	h.decideLetter(w, r, true)
}

func (h *Handler) RejectLetter(w http.ResponseWriter, r *http.Request) {
	h.decideLetter(w, r, false)
}

func (h *Handler) decideLetter(w http.ResponseWriter, r *http.Request, approved bool) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	l := r.Context().Value(LetterCtx).(*domain.Letter)

	var req struct {
		Notes string `json:"notes" validate:"max=1000"`
	}
	// notes are optional, so an empty body is accepted
	if r.ContentLength != 0 && !h.decode(w, r, &req) {
		return
	}

	at := h.now().UTC().Truncate(time.Microsecond)
	if err := l.Decide(approved, myInfo.ID, strings.TrimSpace(req.Notes), at); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotPending):
			h.badRequest(w, r, errors.New("Surat ini tidak sedang menunggu persetujuan"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.UpdateLetter(r.Context(), l); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	msg := "Surat berhasil disetujui"
	if !approved {
		msg = "Surat berhasil ditolak"
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"message": msg,
		"letter":  l,
	})
}
