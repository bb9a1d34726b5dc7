package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

// parseDeadline accepts a calendar date (YYYY-MM-DD, midnight in loc) or a full RFC 3339 timestamp.
func parseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(time.Microsecond), nil
}

func (h *Handler) GetLetterDispositions(w http.ResponseWriter, r *http.Request) {
	l := r.Context().Value(LetterCtx).(*domain.Letter)

	dispositions, err := h.repository.GetDispositionsByLetterID(r.Context(), l.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, dispositions)
}

func (h *Handler) CreateDisposition(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	l := r.Context().Value(LetterCtx).(*domain.Letter)

	var req struct {
		DispositionTo string `json:"dispositionTo" validate:"required,max=100"`
		Instructions  string `json:"instructions" validate:"required"`
		Deadline      string `json:"deadline" validate:"required"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	deadline, err := parseDeadline(req.Deadline, h.now().Location())
	if err != nil {
		h.badRequest(w, r, errors.New("Format tenggat waktu tidak valid, gunakan YYYY-MM-DD"))
		return
	}

	d := &domain.Disposition{
		LetterID:      l.ID,
		DispositionTo: strings.TrimSpace(req.DispositionTo),
		Instructions:  strings.TrimSpace(req.Instructions),
		Deadline:      deadline,
		CreatedBy:     &myInfo.ID,
	}

	if err := h.repository.CreateDisposition(r.Context(), d); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Surat tidak ditemukan")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyDisposition(r, l, d)

	h.writeJSON(w, r, http.StatusCreated, map[string]any{
		"message":     "Disposisi berhasil dibuat",
		"disposition": d,
	})
}

// notifyDisposition mails every member of the target department. Failures are logged only.
func (h *Handler) notifyDisposition(r *http.Request, l *domain.Letter, d *domain.Disposition) {
	users, err := h.repository.GetUsersByDepartment(r.Context(), d.DispositionTo)
	if err != nil {
		h.logInternalServerError(r, err)
		return
	}

	deadline := d.Deadline.In(h.now().Location()).Format("02-01-2006")
	for _, u := range users {
		h.enqueueMail(r, domain.MailMessage{
			Type: domain.MailTypeDisposition,
			To:   u.Email,
			Data: domain.DispositionMailData{
				FullName:      u.FullName,
				LetterSubject: l.Subject,
				LetterNumber:  l.LetterNumber,
				DispositionTo: d.DispositionTo,
				Instructions:  d.Instructions,
				Deadline:      deadline,
			},
		})
	}
}
