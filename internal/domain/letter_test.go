package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterDecide(t *testing.T) {
	at := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   LetterStatus
		approved bool
		want     LetterStatus
		wantErr  error
	}{
		{"approve draft", StatusDraft, true, StatusDisetujui, nil},
		{"reject waiting", StatusMenungguPersetujuan, false, StatusDitolak, nil},
		{"approve received", StatusDiterima, true, StatusDisetujui, nil},
		{"already approved", StatusDisetujui, false, StatusDisetujui, ErrNotPending},
		{"under disposition", StatusDisposisi, true, StatusDisposisi, ErrNotPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Letter{Status: tt.status}
			err := l.Decide(tt.approved, 7, "catatan", at)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, l.Status)
			if tt.wantErr != nil {
				assert.Nil(t, l.ApprovedBy)
				return
			}
			require.NotNil(t, l.ApprovedBy)
			assert.EqualValues(t, 7, *l.ApprovedBy)
			assert.Equal(t, at, *l.ApprovedAt)
			assert.Equal(t, "catatan", l.ApprovalNotes)
		})
	}
}

func TestArchiveRestoreRoundTrip(t *testing.T) {
	created := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	archivedAt := created.Add(48 * time.Hour)
	restoredAt := archivedAt.Add(time.Hour)
	by := int64(3)

	l := &Letter{
		ID: 11, Type: LetterIncoming, Subject: "Undangan", Sender: "Bupati", Recipient: "Dinas",
		LetterNumber: "005/1/2025", Priority: PriorityTinggi, Status: StatusSelesai, Content: "isi",
		CreatedBy: &by, CreatedAt: created,
	}

	t.Run("without dispositions", func(t *testing.T) {
		a := NewArchivedLetter(l, nil, 9, archivedAt)
		assert.Equal(t, int64(11), a.OriginalID)
		assert.Equal(t, archivedAt, a.ArchivedAt)
		assert.NotNil(t, a.Dispositions)

		restored := a.Restore(restoredAt)
		assert.Equal(t, StatusDisetujui, restored.Status)
		assert.Zero(t, restored.ID)
		assert.Equal(t, restoredAt, restored.UpdatedAt)

		want := *l
		want.ID = 0
		want.Status = StatusDisetujui
		want.UpdatedAt = restoredAt
		want.Dispositions = []Disposition{}
		if diff := cmp.Diff(&want, restored); diff != "" {
			t.Errorf("restored letter mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("with dispositions", func(t *testing.T) {
		dispositions := []Disposition{{ID: 5, LetterID: 11, DispositionTo: "Sekretariat", Instructions: "proses"}}
		a := NewArchivedLetter(l, dispositions, 9, archivedAt)

		restored := a.Restore(restoredAt)
		assert.Equal(t, StatusDisposisi, restored.Status)
		require.Len(t, restored.Dispositions, 1)
		assert.Zero(t, restored.Dispositions[0].ID)
		assert.Zero(t, restored.Dispositions[0].LetterID)
		assert.Equal(t, "Sekretariat", restored.Dispositions[0].DispositionTo)
		// the archived copy keeps its own ids
		assert.Equal(t, int64(5), a.Dispositions[0].ID)
	})
}

func TestRoles(t *testing.T) {
	assert.True(t, RoleKepalaDinas.IsAdmin())
	assert.False(t, RoleSekretaris.IsAdmin())
	assert.True(t, RoleSekretaris.CanApprove())
	assert.False(t, RoleKepalaBidang.CanApprove())
	assert.False(t, Role("Presiden").Valid())
	assert.True(t, RoleStaff.Valid())
}
