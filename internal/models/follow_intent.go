package models

import "time"

// Follow intent states.
const (
	IntentPending = "pending"
	IntentApplied = "applied"
)

// FollowIntent is a write-ahead journal row (PostgreSQL) for a follow toggle.
// The two Mongo writes behind a toggle share no transaction; an intent is
// recorded before the first write and marked applied after the second, so a
// crash in between leaves a stale pending row for the reconciler to replay.
type FollowIntent struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	ActorID   string     `json:"actor_id" gorm:"size:24;index"`
	TargetID  string     `json:"target_id" gorm:"size:24;index"`
	Mode      string     `json:"mode" gorm:"size:10"`
	State     string     `json:"state" gorm:"size:10;index"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}
