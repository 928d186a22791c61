package model

import "time"

type ComplaintStatus string

const (
	StatusNew        ComplaintStatus = "new"
	StatusInReview   ComplaintStatus = "in_review"
	StatusAssigned   ComplaintStatus = "assigned"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusRejected   ComplaintStatus = "rejected"
)

// ValidStatus reports whether s is one of the known complaint statuses.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusNew, StatusInReview, StatusAssigned, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Complaint is the central record. It is never physically deleted; rejected
// is a terminal status, not a deletion.
type Complaint struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Description string `gorm:"type:text;not null" json:"description"`
	Location    string `gorm:"type:varchar(255)" json:"location,omitempty"`
	PhotoRef    string `gorm:"type:varchar(255)" json:"photo_ref,omitempty"`
	SubmittedBy string `gorm:"type:varchar(128);index" json:"submitted_by"`

	Category    string  `gorm:"type:varchar(64);index" json:"category"`
	Confidence  float64 `json:"confidence"`
	NeedsReview bool    `gorm:"index" json:"needs_review"`
	Department  string  `gorm:"type:varchar(64);index" json:"department"`

	Status        ComplaintStatus `gorm:"type:varchar(32);index;not null" json:"status"`
	Severity      int             `json:"severity"`
	PriorityScore float64         `gorm:"index" json:"priority_score"`
	VoteCount     int             `json:"vote_count"`

	// LockVersion implements optimistic locking: every lifecycle mutation
	// bumps it, and stale writers get a conflict instead of a lost update.
	LockVersion int `json:"-"`

	Comments   []Comment   `gorm:"foreignKey:ComplaintID" json:"comments,omitempty"`
	AdminNotes []AdminNote `gorm:"foreignKey:ComplaintID" json:"admin_notes,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Comment is a citizen comment, append-only.
type Comment struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ComplaintID string    `gorm:"index;not null;type:varchar(36)" json:"complaint_id"`
	Author      string    `gorm:"type:varchar(128)" json:"author"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdminNote is a staff-only note, append-only.
type AdminNote struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ComplaintID string    `gorm:"index;not null;type:varchar(36)" json:"complaint_id"`
	Author      string    `gorm:"type:varchar(128)" json:"author"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Vote records one vote per voter per complaint. The unique index is what
// enforces vote idempotence.
type Vote struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	ComplaintID string    `gorm:"uniqueIndex:idx_votes_complaint_voter;not null;type:varchar(36)" json:"complaint_id"`
	VoterID     string    `gorm:"uniqueIndex:idx_votes_complaint_voter;not null;type:varchar(128)" json:"voter_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type ActivityKind string

const (
	ActivityClassified    ActivityKind = "classified"
	ActivityStatusChanged ActivityKind = "status_changed"
	ActivityReassigned    ActivityKind = "reassigned"
	ActivityNoteAdded     ActivityKind = "note_added"
)

// ActorSystem is the actor recorded for actions taken by the pipeline itself.
const ActorSystem = "system"

// ActivityRecord is the audit trail. Immutable once written, ordered by
// timestamp.
type ActivityRecord struct {
	ID          uint64       `gorm:"primaryKey" json:"id"`
	ComplaintID string       `gorm:"index;not null;type:varchar(36)" json:"complaint_id"`
	Actor       string       `gorm:"type:varchar(128);not null" json:"actor"`
	Kind        ActivityKind `gorm:"type:varchar(32);index;not null" json:"kind"`
	Detail      string       `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
}
