package models

import "time"

// Task always references exactly one owning user. The owner is set at
// creation and immutable afterwards; every read/write is scoped to it.
type Task struct {
	ID          string
	UserID      string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
