package handler

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	var (
		letters  []*domain.Letter
		archived int
	)

	eg, ctx := errgroup.WithContext(r.Context())
	eg.Go(func() (err error) {
		letters, err = h.repository.ListLetters(ctx, domain.LetterFilter{})
		return err
	})
	eg.Go(func() (err error) {
		archived, err = h.repository.CountArchivedLetters(ctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, domain.ComputeStatistics(letters, archived, h.now()))
}

func (h *Handler) SearchLetters(w http.ResponseWriter, r *http.Request) {
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
