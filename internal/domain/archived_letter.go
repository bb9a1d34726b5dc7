package domain

import "time"

type ArchivedLetter struct {
	ID            int64         `json:"id"`
	OriginalID    int64         `json:"originalId"`
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
	Dispositions  []Disposition `json:"dispositions"`
	ArchivedAt    time.Time     `json:"archivedAt"`
	ArchivedBy    *int64        `json:"archivedBy"`
}

// ArchivedLetterFilter narrows archive listings. Year filters on the letter's creation date.
type ArchivedLetterFilter struct {
	Type  LetterType
	Year  int
	Query string
}

func NewArchivedLetter(l *Letter, dispositions []Disposition, by int64, at time.Time) *ArchivedLetter {
	if dispositions == nil {
		dispositions = []Disposition{}
	}

	return &ArchivedLetter{
		OriginalID:    l.ID,
		Type:          l.Type,
		Subject:       l.Subject,
		Sender:        l.Sender,
		Recipient:     l.Recipient,
		LetterNumber:  l.LetterNumber,
		Priority:      l.Priority,
		Status:        l.Status,
		Content:       l.Content,
		Attachment:    l.Attachment,
		ApprovalNotes: l.ApprovalNotes,
		ApprovedAt:    l.ApprovedAt,
		ApprovedBy:    l.ApprovedBy,
		CreatedBy:     l.CreatedBy,
		CreatedAt:     l.CreatedAt,
		Dispositions:  dispositions,
		ArchivedAt:    at,
		ArchivedBy:    &by,
	}
}

// RestoredStatus is the status a letter gets back when it leaves the archive.
func (a *ArchivedLetter) RestoredStatus() LetterStatus {
	if len(a.Dispositions) > 0 {
		return StatusDisposisi
	}
	return StatusDisetujui
}

// Restore builds the active letter for this archive entry. The returned letter has no ID yet;
// its dispositions keep their content but lose their IDs.
func (a *ArchivedLetter) Restore(at time.Time) *Letter {
	dispositions := make([]Disposition, 0, len(a.Dispositions))
	for _, d := range a.Dispositions {
		d.ID = 0
		d.LetterID = 0
		dispositions = append(dispositions, d)
	}

	return &Letter{
		Type:          a.Type,
		Subject:       a.Subject,
		Sender:        a.Sender,
		Recipient:     a.Recipient,
		LetterNumber:  a.LetterNumber,
		Priority:      a.Priority,
		Status:        a.RestoredStatus(),
		Content:       a.Content,
		Attachment:    a.Attachment,
		ApprovalNotes: a.ApprovalNotes,
		ApprovedAt:    a.ApprovedAt,
		ApprovedBy:    a.ApprovedBy,
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     at,
		Dispositions:  dispositions,
	}
}
