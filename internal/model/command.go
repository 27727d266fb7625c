package model

import "time"

// CommandOutcome classifies how a command ended.
type CommandOutcome string

const (
	OutcomeApplied      CommandOutcome = "applied"
	OutcomeFailed       CommandOutcome = "failed"
	OutcomeStateUnknown CommandOutcome = "state_unknown"
	OutcomeRejected     CommandOutcome = "rejected"
)

// CommandRecord is one entry of the command audit log.
type CommandRecord struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	EntityID       string         `gorm:"index;size:256;not null" json:"entityId"`
	Command        string         `gorm:"size:64;not null" json:"command"`
	Argument       string         `gorm:"size:64" json:"argument"`
	Payload        string         `gorm:"not null" json:"payload"`
	Outcome        CommandOutcome `gorm:"size:32;not null" json:"outcome"`
	Error          string         `json:"error,omitempty"`
	IssuedAt       time.Time      `gorm:"index;not null" json:"issuedAt"`
	DurationMillis int64          `json:"durationMillis"`
}
