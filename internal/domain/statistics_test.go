package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestComputeStatistics(t *testing.T) {
	now := time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2025, time.August, 30, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		letters  []*Letter
		archived int
		want     Statistics
	}{
		{
			name: "one incoming and one outgoing draft",
			letters: []*Letter{
				{ID: 1, Type: LetterIncoming, Status: StatusDraft, CreatedAt: now},
				{ID: 2, Type: LetterOutgoing, Status: StatusDraft, CreatedAt: now},
			},
			want: Statistics{
				TotalLetters:      2,
				IncomingLetters:   1,
				OutgoingLetters:   1,
				PendingLetters:    2,
				ThisMonthLetters:  2,
				ThisMonthIncoming: 1,
				ThisMonthOutgoing: 1,
			},
		},
		{
			name:     "empty set still reports archive",
			archived: 3,
			want:     Statistics{ArchivedLetters: 3},
		},
		{
			name: "decided and older letters",
			letters: []*Letter{
				{ID: 1, Type: LetterIncoming, Status: StatusDisposisi, CreatedAt: lastMonth},
				{ID: 2, Type: LetterIncoming, Status: StatusMenungguPersetujuan, CreatedAt: now},
				{ID: 3, Type: LetterOutgoing, Status: StatusDikirim, CreatedAt: lastMonth},
				{ID: 4, Type: LetterOutgoing, Status: StatusDiterima, CreatedAt: now},
			},
			archived: 1,
			want: Statistics{
				TotalLetters:      4,
				IncomingLetters:   2,
				OutgoingLetters:   2,
				PendingLetters:    2,
				ThisMonthLetters:  2,
				ThisMonthIncoming: 1,
				ThisMonthOutgoing: 1,
				ArchivedLetters:   1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStatistics(tt.letters, tt.archived, now)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeStatistics() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, got.TotalLetters, got.IncomingLetters+got.OutgoingLetters)
		})
	}
}

func TestFilterReportRowsAndBuildReport(t *testing.T) {
	now := time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC)
	rows := []ReportRow{
		{ID: 1, Type: LetterIncoming, Status: StatusDraft, Priority: PriorityTinggi, CreatedAt: now.Add(-time.Hour)},
		{ID: 2, Type: LetterOutgoing, Status: StatusDikirim, Priority: PrioritySedang, CreatedAt: now.AddDate(0, 0, -3)},
		{ID: 3, Type: LetterIncoming, Status: StatusDisposisi, Priority: PrioritySedang, CreatedAt: now.AddDate(0, -2, 0), Archived: true},
		{ID: 4, Type: LetterOutgoing, Status: StatusSelesai, Priority: PriorityRendah, CreatedAt: now.AddDate(-1, 0, 0), Archived: true},
	}

	t.Run("ranges", func(t *testing.T) {
		assert.Len(t, FilterReportRows(rows, ReportFilter{Range: RangeAll}, now), 4)
		assert.Len(t, FilterReportRows(rows, ReportFilter{Range: RangeToday}, now), 1)
		assert.Len(t, FilterReportRows(rows, ReportFilter{Range: RangeThisWeek}, now), 2)
		assert.Len(t, FilterReportRows(rows, ReportFilter{Range: RangeThisMonth}, now), 2)
		assert.Len(t, FilterReportRows(rows, ReportFilter{Range: RangeThisYear}, now), 3)
	})

	t.Run("field filters", func(t *testing.T) {
		got := FilterReportRows(rows, ReportFilter{Range: RangeAll, Type: LetterIncoming, Priority: PrioritySedang}, now)
		if assert.Len(t, got, 1) {
			assert.Equal(t, int64(3), got[0].ID)
		}
	})

	t.Run("summary", func(t *testing.T) {
		report := BuildReport(rows, now)
		want := Report{
			Total:      4,
			Incoming:   2,
			Outgoing:   2,
			Pending:    1,
			ByStatus:   map[string]int{"draft": 1, "dikirim": 1, "disposisi": 1, "selesai": 1},
			ByPriority: map[string]int{"tinggi": 1, "sedang": 2, "rendah": 1},
			ByType:     map[string]int{"incoming": 2, "outgoing": 2},
			ByMonth:    map[string]int{"2025-09": 2, "2025-07": 1, "2024-09": 1},
		}
		if diff := cmp.Diff(want, report); diff != "" {
			t.Errorf("BuildReport() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestReportRowsFromOrdersNewestFirst(t *testing.T) {
	old := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	rows := ReportRowsFrom(
		[]*Letter{{ID: 1, Subject: "active", CreatedAt: old}},
		[]*ArchivedLetter{{ID: 7, Subject: "archived", CreatedAt: recent}},
	)

	if assert.Len(t, rows, 2) {
		assert.Equal(t, "archived", rows[0].Subject)
		assert.True(t, rows[0].Archived)
		assert.Equal(t, "active", rows[1].Subject)
		assert.False(t, rows[1].Archived)
	}
}
