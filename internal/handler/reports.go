package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
	"github.com/disnaker-asahan/letter-manager/backend/internal/report"
)

func (h *Handler) reportFilter(w http.ResponseWriter, r *http.Request) (domain.ReportFilter, bool) {
	query := r.URL.Query()

	params := struct {
		Range    string `json:"range" validate:"omitempty,oneof=all today thisWeek thisMonth thisYear"`
		Type     string `json:"type" validate:"omitempty,oneof=incoming outgoing"`
		Status   string `json:"status" validate:"omitempty,oneof=draft diterima menunggu_persetujuan disetujui ditolak disposisi selesai dikirim"`
		Priority string `json:"priority" validate:"omitempty,oneof=rendah sedang tinggi"`
	}{
		Range:    query.Get("range"),
		Type:     query.Get("type"),
		Status:   query.Get("status"),
		Priority: query.Get("priority"),
	}
	if err := h.validate.Struct(params); err != nil {
		h.badRequest(w, r, err)
		return domain.ReportFilter{}, false
	}

	filter := domain.ReportFilter{
		Range:    domain.ReportRange(params.Range),
		Type:     domain.LetterType(params.Type),
		Status:   domain.LetterStatus(params.Status),
		Priority: domain.Priority(params.Priority),
	}
	if filter.Range == "" {
		filter.Range = domain.RangeAll
	}

	return filter, true
}

// reportRows collects active and archived letters and applies filter.
func (h *Handler) reportRows(r *http.Request, filter domain.ReportFilter) ([]domain.ReportRow, error) {
	var (
		letters  []*domain.Letter
		archived []*domain.ArchivedLetter
	)

	eg, ctx := errgroup.WithContext(r.Context())
	eg.Go(func() (err error) {
		letters, err = h.repository.ListLetters(ctx, domain.LetterFilter{})
		return err
	})
	eg.Go(func() (err error) {
		archived, err = h.repository.ListArchivedLetters(ctx, domain.ArchivedLetterFilter{})
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return domain.FilterReportRows(domain.ReportRowsFrom(letters, archived), filter, h.now()), nil
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.reportFilter(w, r)
	if !ok {
		return
	}

	rows, err := h.reportRows(r, filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"filter":  filter,
		"summary": domain.BuildReport(rows, h.now()),
		"letters": rows,
	})
}

func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.reportFilter(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = report.FormatXLSX
	}
	if err := h.validate.Var(format, "oneof=json csv xlsx"); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Format ekspor harus json, csv, atau xlsx")
		return
	}

	rows, err := h.reportRows(r, filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	now := h.now()
	summary := domain.BuildReport(rows, now)

	var buf bytes.Buffer
	switch format {
	case report.FormatCSV:
		err = report.WriteCSV(&buf, rows)
	case report.FormatJSON:
		err = report.WriteJSON(&buf, summary, rows, filter, now)
	default:
		err = report.WriteXLSX(&buf, summary, rows)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	contentType, ext := report.ContentType(format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="laporan-surat-%s.%s"`, now.Format("2006-01-02"), ext))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logInternalServerError(r, err)
	}
}
