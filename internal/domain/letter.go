package domain

import (
	"errors"
	"slices"
	"time"
)

type LetterType string

const (
	LetterIncoming LetterType = "incoming"
	LetterOutgoing LetterType = "outgoing"
)

type Priority string

const (
	PriorityRendah Priority = "rendah"
	PrioritySedang Priority = "sedang"
	PriorityTinggi Priority = "tinggi"
)

type LetterStatus string

const (
	StatusDraft               LetterStatus = "draft"
	StatusDiterima            LetterStatus = "diterima"
	StatusMenungguPersetujuan LetterStatus = "menunggu_persetujuan"
	StatusDisetujui           LetterStatus = "disetujui"
	StatusDitolak             LetterStatus = "ditolak"
	StatusDisposisi           LetterStatus = "disposisi"
	StatusSelesai             LetterStatus = "selesai"
	StatusDikirim             LetterStatus = "dikirim"
)

// PendingStatuses are the statuses counted as waiting for action.
var PendingStatuses = []LetterStatus{StatusDraft, StatusDiterima, StatusMenungguPersetujuan}

func (s LetterStatus) IsPending() bool { return slices.Contains(PendingStatuses, s) }

var ErrNotPending = errors.New("letter is not waiting for a decision")

type Letter struct {
	ID            int64         `json:"id"`
	Type          LetterType    `json:"type"`
	Subject       string        `json:"subject"`
	Sender        string        `json:"sender"`
	Recipient     string        `json:"recipient"`
	LetterNumber  string        `json:"letterNumber"`
	Priority      Priority      `json:"priority"`
	Status        LetterStatus  `json:"status"`
	Content       string        `json:"content"`
	Attachment    string        `json:"attachment,omitempty"`
	ApprovalNotes string        `json:"approvalNotes,omitempty"`
	ApprovedAt    *time.Time    `json:"approvedAt,omitempty"`
	ApprovedBy    *int64        `json:"approvedBy,omitempty"`
	CreatedBy     *int64        `json:"createdBy"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	Dispositions  []Disposition `json:"dispositions"`
	Version       int32         `json:"-"`
}

// Decide records an approval or rejection. Only pending letters can be decided.
func (l *Letter) Decide(approved bool, by int64, notes string, at time.Time) error {
	if !l.Status.IsPending() {
		return ErrNotPending
	}

	if approved {
		l.Status = StatusDisetujui
	} else {
		l.Status = StatusDitolak
	}
	l.ApprovalNotes = notes
	l.ApprovedBy = &by
	l.ApprovedAt = &at

	return nil
}

type Disposition struct {
	ID            int64     `json:"id"`
	LetterID      int64     `json:"letterId"`
	DispositionTo string    `json:"dispositionTo"`
	Instructions  string    `json:"instructions"`
	Deadline      time.Time `json:"deadline"`
	CreatedBy     *int64    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LetterFilter narrows letter listings. Empty fields do not filter.
type LetterFilter struct {
	Type     LetterType
	Status   LetterStatus
	Priority Priority
	Query    string
}
