package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var headers = []string{"No", "ID", "Jenis", "Perihal", "Pengirim", "Penerima", "Status", "Prioritas", "Tanggal", "Arsip"}

var typeLabels = map[domain.LetterType]string{
	domain.LetterIncoming: "Surat Masuk",
	domain.LetterOutgoing: "Surat Keluar",
}

func archivedLabel(archived bool) string {
	if archived {
		return "Ya"
	}
	return "Tidak"
}

func rowToSlice(i int, row domain.ReportRow) []any {
	label, ok := typeLabels[row.Type]
	if !ok {
		label = string(row.Type)
	}

	return []any{
		i + 1, row.ID, label, row.Subject, row.Sender, row.Recipient,
		string(row.Status), string(row.Priority), row.CreatedAt.Format("02/01/2006"), archivedLabel(row.Archived),
	}
}

// ContentType returns the MIME type and file extension of format.
func ContentType(format string) (string, string) {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8", "csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	default:
		return "application/json", "json"
	}
}

// WriteXLSX writes a workbook with the letter rows on the first sheet and the summary on a second one.
func WriteXLSX(w io.Writer, summary domain.Report, rows []domain.ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Laporan Surat"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "J1", style); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := rowToSlice(i, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(sheet, "D", "D", 40)
	_ = f.SetColWidth(sheet, "E", "F", 30)
	_ = f.SetColWidth(sheet, "G", "G", 22)

	if err := writeSummarySheet(f, "Ringkasan", summary, style); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSummarySheet(f *excelize.File, sheet string, summary domain.Report, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	lines := [][]any{
		{"Total Surat", summary.Total},
		{"Surat Masuk", summary.Incoming},
		{"Surat Keluar", summary.Outgoing},
		{"Menunggu Tindakan", summary.Pending},
		{},
		{"Status", "Jumlah"},
	}
	statusHeader := len(lines)
	for _, status := range []domain.LetterStatus{
		domain.StatusDraft, domain.StatusDiterima, domain.StatusMenungguPersetujuan, domain.StatusDisetujui,
		domain.StatusDitolak, domain.StatusDisposisi, domain.StatusSelesai, domain.StatusDikirim,
	} {
		lines = append(lines, []any{string(status), summary.ByStatus[string(status)]})
	}

	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return err
		}
	}

	headerCell, err := excelize.CoordinatesToCellName(1, statusHeader)
	if err != nil {
		return err
	}
	endCell, err := excelize.CoordinatesToCellName(2, statusHeader)
	if err != nil {
		return err
	}

	return f.SetCellStyle(sheet, headerCell, endCell, headerStyle)
}

func WriteCSV(w io.Writer, rows []domain.ReportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(headers); err != nil {
		return err
	}
	for i, row := range rows {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(row.ID, 10),
			typeLabels[row.Type],
			row.Subject,
			row.Sender,
			row.Recipient,
			string(row.Status),
			string(row.Priority),
			row.CreatedAt.Format("02/01/2006"),
			archivedLabel(row.Archived),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type jsonExport struct {
	GeneratedAt time.Time           `json:"generatedAt"`
	Filter      domain.ReportFilter `json:"filter"`
	Summary     domain.Report       `json:"summary"`
	Letters     []domain.ReportRow  `json:"letters"`
}

func WriteJSON(w io.Writer, summary domain.Report, rows []domain.ReportRow, filter domain.ReportFilter, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(jsonExport{
		GeneratedAt: now,
		Filter:      filter,
		Summary:     summary,
		Letters:     rows,
	})
}
