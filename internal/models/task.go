package models

import "time"

// PriorityMedium is the default task priority. The priority set is
// open-ended: any free-form label supplied by the client is stored as is.
const PriorityMedium = "Medium"

type Task struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	Category    string
	Priority    string
	Deadline    *time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	Completed   bool
	Progress    int
	CreatedAt   time.Time
}
