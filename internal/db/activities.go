package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Task is one checkable item of a day's plan. ID is the 1-based ordinal
// the generation model assigned in its numbered list; button callbacks
// carry only this ordinal, so it stays stable for the life of the record.
type Task struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// DailyActivity is the single per-user, per-day plan record: the raw
// generated text plus its structured task breakdown.
type DailyActivity struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Date      string `json:"activity_date"` // YYYY-MM-DD in the bot's fixed zone
	Content   string `json:"content"`
	Tasks     []Task `json:"tasks"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// GetActivity returns the record for (user, date), or nil if none exists.
func (d *DB) GetActivity(userID int64, date string) (*DailyActivity, error) {
	var a DailyActivity
	var tasksJSON string
	err := d.conn.QueryRow(
		`SELECT id, user_id, activity_date, content, tasks, created_at, updated_at
		 FROM daily_activities WHERE user_id = ? AND activity_date = ?`,
		userID, date,
	).Scan(&a.ID, &a.UserID, &a.Date, &a.Content, &tasksJSON, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting activity: %w", err)
	}
	if err := json.Unmarshal([]byte(tasksJSON), &a.Tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks for activity %d: %w", a.ID, err)
	}
	return &a, nil
}

// UpsertActivity writes the day's record. A second write for the same
// (user, date) replaces content and tasks instead of adding a row.
func (d *DB) UpsertActivity(userID int64, date, content string, tasks []Task) error {
	tasksJSON, err := marshalTasks(tasks)
	if err != nil {
		return err
	}
	_, err = d.conn.Exec(
		`INSERT INTO daily_activities (user_id, activity_date, content, tasks) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, activity_date)
		 DO UPDATE SET content = ?, tasks = ?, updated_at = datetime('now')`,
		userID, date, content, tasksJSON, content, tasksJSON,
	)
	if err != nil {
		return fmt.Errorf("upserting activity: %w", err)
	}
	return nil
}

// UpdateActivityTasks overwrites only the task list of an existing record.
// Used by the toggle path; the raw content is left untouched.
func (d *DB) UpdateActivityTasks(userID int64, date string, tasks []Task) error {
	tasksJSON, err := marshalTasks(tasks)
	if err != nil {
		return err
	}
	res, err := d.conn.Exec(
		"UPDATE daily_activities SET tasks = ?, updated_at = datetime('now') WHERE user_id = ? AND activity_date = ?",
		tasksJSON, userID, date,
	)
	if err != nil {
		return fmt.Errorf("updating activity tasks: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("no activity for user %d on %s", userID, date)
	}
	return nil
}

func marshalTasks(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encoding tasks: %w", err)
	}
	return string(b), nil
}
