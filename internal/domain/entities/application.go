package entities

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ApplicationStatus represents the review status of an application
type ApplicationStatus string

const (
	StatusPending    ApplicationStatus = "pending"
	StatusApproved   ApplicationStatus = "approved"
	StatusProcessing ApplicationStatus = "processing"
	StatusCompleted  ApplicationStatus = "completed"
	StatusRejected   ApplicationStatus = "rejected"
)

// ReviewStatuses is the pending/approved/rejected vocabulary.
var ReviewStatuses = []ApplicationStatus{StatusPending, StatusApproved, StatusRejected}

// ProcessingStatuses is the pending/processing/completed/rejected vocabulary.
var ProcessingStatuses = []ApplicationStatus{StatusPending, StatusProcessing, StatusCompleted, StatusRejected}

// ActiveStatuses block a second submission with the same email.
var ActiveStatuses = []ApplicationStatus{StatusPending, StatusApproved, StatusProcessing}

// IsActive reports whether the status blocks resubmission.
func (s ApplicationStatus) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// File is a validated, base64 encoded document.
type File struct {
	Data        string `json:"data"`
	ContentType string `json:"contentType"`
}

// Application represents one submission in a kind's collection
type Application struct {
	ID                uuid.UUID         `json:"id"`
	Kind              Kind              `json:"kind"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone,omitempty"`
	Identifier        null.String       `json:"identifier,omitempty"`
	Fields            map[string]any    `json:"fields"`
	Documents         map[string]File   `json:"documents"`
	Status            ApplicationStatus `json:"status"`
	PaymentVerified   bool              `json:"paymentVerified"`
	PaymentVerifiedAt null.Time         `json:"paymentVerifiedAt,omitempty"`
	ApplicationDate   time.Time         `json:"applicationDate"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// RecordValidationError is returned by the storage layer when a record fails its own
// consistency checks before insert.
type RecordValidationError struct {
	Messages []string
}

func (e *RecordValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Validate re-checks the invariants every stored record must hold.
func (a *Application) Validate() error {
	var msgs []string
	if a.ID == uuid.Nil {
		msgs = append(msgs, "id is required")
	}
	if a.Kind == "" {
		msgs = append(msgs, "kind is required")
	}
	if strings.TrimSpace(a.Email) == "" {
		msgs = append(msgs, "email is required")
	}
	if a.Status == "" {
		msgs = append(msgs, "status is required")
	}
	if a.ApplicationDate.IsZero() {
		msgs = append(msgs, "applicationDate is required")
	}
	if len(msgs) > 0 {
		return &RecordValidationError{Messages: msgs}
	}
	return nil
}

// ApplicationView is the staff-facing projection of an application. Fields lists exactly the
// schema's declared fields.
type ApplicationView struct {
	ID              string
	Kind            Kind
	ClientType      ClientType
	Fields          map[string]any
	Files           map[string]File
	Status          ApplicationStatus
	PaymentVerified bool
	ApplicationDate time.Time
}

// MarshalJSON flattens the declared fields next to the fixed keys.
func (v ApplicationView) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(v.Fields)+7)
	for k, val := range v.Fields {
		out[k] = val
	}
	out["id"] = v.ID
	out["kind"] = v.Kind
	if v.ClientType != "" {
		out["clientType"] = v.ClientType
	}
	out["files"] = v.Files
	out["status"] = v.Status
	out["paymentVerified"] = v.PaymentVerified
	out["applicationDate"] = v.ApplicationDate
	return json.Marshal(out)
}
