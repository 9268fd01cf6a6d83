package domain

import "time"

type Task struct {
	ID          int64     `db:"id"`
	Description string    `db:"description"`
	Completed   bool      `db:"completed"`
	CreatedAt   time.Time `db:"created_at"`
}
