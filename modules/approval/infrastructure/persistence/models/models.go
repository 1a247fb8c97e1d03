package models

import "time"

// ChangeRequest is the database row shape for approval change requests.
// Snapshots travel as raw JSONB.
type ChangeRequest struct {
	ID               string
	RequesterID      string
	RequesterName    string
	RequesterRole    string
	ActionType       string
	ResourceType     string
	ResourceID       *string
	OriginalSnapshot []byte
	ProposedChanges  []byte
	Reason           string
	Status           string
	ReviewedBy       *string
	ReviewedAt       *time.Time
	ReviewComment    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
