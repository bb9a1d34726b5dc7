package domain

import (
	"sort"
	"time"
)

type Statistics struct {
	TotalLetters      int `json:"totalLetters"`
	IncomingLetters   int `json:"incomingLetters"`
	OutgoingLetters   int `json:"outgoingLetters"`
	PendingLetters    int `json:"pendingLetters"`
	ThisMonthLetters  int `json:"thisMonthLetters"`
	ThisMonthIncoming int `json:"thisMonthIncoming"`
	ThisMonthOutgoing int `json:"thisMonthOutgoing"`
	ArchivedLetters   int `json:"archivedLetters"`
}

// ComputeStatistics counts the active letter set. "This month" is the calendar month of now,
// evaluated in now's location.
func ComputeStatistics(letters []*Letter, archivedCount int, now time.Time) Statistics {
	stats := Statistics{
		TotalLetters:    len(letters),
		ArchivedLetters: archivedCount,
	}

	year, month, _ := now.Date()
	for _, l := range letters {
		created := l.CreatedAt.In(now.Location())
		thisMonth := created.Year() == year && created.Month() == month
		if thisMonth {
			stats.ThisMonthLetters++
		}

		switch l.Type {
		case LetterIncoming:
			stats.IncomingLetters++
			if thisMonth {
				stats.ThisMonthIncoming++
			}
		case LetterOutgoing:
			stats.OutgoingLetters++
			if thisMonth {
				stats.ThisMonthOutgoing++
			}
		}

		if l.Status.IsPending() {
			stats.PendingLetters++
		}
	}

	return stats
}

type ReportRange string

const (
	RangeAll       ReportRange = "all"
	RangeToday     ReportRange = "today"
	RangeThisWeek  ReportRange = "thisWeek"
	RangeThisMonth ReportRange = "thisMonth"
	RangeThisYear  ReportRange = "thisYear"
)

type ReportFilter struct {
	Range    ReportRange  `json:"range"`
	Type     LetterType   `json:"type,omitempty"`
	Status   LetterStatus `json:"status,omitempty"`
	Priority Priority     `json:"priority,omitempty"`
}

// ReportRow is the flattened view of an active or archived letter used by reports.
type ReportRow struct {
	ID        int64        `json:"id"`
	Type      LetterType   `json:"type"`
	Subject   string       `json:"subject"`
	Sender    string       `json:"sender"`
	Recipient string       `json:"recipient"`
	Status    LetterStatus `json:"status"`
	Priority  Priority     `json:"priority"`
	CreatedAt time.Time    `json:"createdAt"`
	Archived  bool         `json:"archived"`
}

type Report struct {
	Total      int            `json:"total"`
	Incoming   int            `json:"incoming"`
	Outgoing   int            `json:"outgoing"`
	Pending    int            `json:"pending"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
	ByType     map[string]int `json:"byType"`
	ByMonth    map[string]int `json:"byMonth"`
}

func ReportRowsFrom(letters []*Letter, archived []*ArchivedLetter) []ReportRow {
	rows := make([]ReportRow, 0, len(letters)+len(archived))
	for _, l := range letters {
		rows = append(rows, ReportRow{
			ID: l.ID, Type: l.Type, Subject: l.Subject, Sender: l.Sender, Recipient: l.Recipient,
			Status: l.Status, Priority: l.Priority, CreatedAt: l.CreatedAt,
		})
	}
	for _, a := range archived {
		rows = append(rows, ReportRow{
			ID: a.ID, Type: a.Type, Subject: a.Subject, Sender: a.Sender, Recipient: a.Recipient,
			Status: a.Status, Priority: a.Priority, CreatedAt: a.CreatedAt, Archived: true,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	return rows
}

// rangeStart returns the inclusive lower bound of r, or the zero time for RangeAll.
func rangeStart(r ReportRange, now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()

	switch r {
	case RangeToday:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case RangeThisWeek:
		return time.Date(y, m, d-7, 0, 0, 0, 0, loc)
	case RangeThisMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case RangeThisYear:
		return time.Date(y, 1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Time{}
	}
}

// FilterReportRows keeps the rows matching every non-empty field of f.
func FilterReportRows(rows []ReportRow, f ReportFilter, now time.Time) []ReportRow {
	start := rangeStart(f.Range, now)

	filtered := make([]ReportRow, 0, len(rows))
	for _, row := range rows {
		if !start.IsZero() && row.CreatedAt.Before(start) {
			continue
		}
		if f.Type != "" && row.Type != f.Type {
			continue
		}
		if f.Status != "" && row.Status != f.Status {
			continue
		}
		if f.Priority != "" && row.Priority != f.Priority {
			continue
		}
		filtered = append(filtered, row)
	}

	return filtered
}

// BuildReport summarises rows that were already filtered. Months are keyed YYYY-MM in now's location.
func BuildReport(rows []ReportRow, now time.Time) Report {
	report := Report{
		Total:      len(rows),
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
		ByType:     map[string]int{},
		ByMonth:    map[string]int{},
	}

	for _, row := range rows {
		switch row.Type {
		case LetterIncoming:
			report.Incoming++
		case LetterOutgoing:
			report.Outgoing++
		}
		if row.Status.IsPending() {
			report.Pending++
		}

		report.ByStatus[keyOrUnknown(string(row.Status))]++
		report.ByPriority[keyOrUnknown(string(row.Priority))]++
		report.ByType[keyOrUnknown(string(row.Type))]++
		report.ByMonth[row.CreatedAt.In(now.Location()).Format("2006-01")]++
	}

	return report
}

func keyOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
