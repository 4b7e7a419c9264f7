package db

import (
	"fmt"
)

type Goal struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Description string `json:"description"`
	Deadline    string `json:"deadline,omitempty"` // free text, not parsed
	Priority    int    `json:"priority"`
	CreatedAt   string `json:"created_at"`
}

// CreateGoal stores a goal and returns its ID. The deadline is kept as
// free text; no date validation happens on input.
func (d *DB) CreateGoal(userID int64, description, deadline string, priority int) (int64, error) {
	res, err := d.conn.Exec(
		"INSERT INTO goals (user_id, description, deadline, priority) VALUES (?, ?, ?, ?)",
		userID, description, nullStr(deadline), priority,
	)
	if err != nil {
		return 0, fmt.Errorf("creating goal: %w", err)
	}
	return res.LastInsertId()
}

// ListGoals returns a user's goals in stable display order: priority
// descending, then creation order. "goal N" references in a listing and
// a later delete-by-number resolve against this same order.
func (d *DB) ListGoals(userID int64) ([]Goal, error) {
	rows, err := d.conn.Query(
		`SELECT id, user_id, description, COALESCE(deadline,''), priority, created_at
		 FROM goals WHERE user_id = ? ORDER BY priority DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()
	var goals []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Description, &g.Deadline, &g.Priority, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// DeleteGoal removes one goal by ID, scoped to its owner.
func (d *DB) DeleteGoal(userID, goalID int64) error {
	res, err := d.conn.Exec("DELETE FROM goals WHERE id = ? AND user_id = ?", goalID, userID)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("goal %d not found", goalID)
	}
	return nil
}

// DeleteGoalByPosition removes the n-th goal (1-based) of the stable
// listing order and returns it, so callers can confirm what was removed.
// An out-of-range n returns nil with no mutation.
func (d *DB) DeleteGoalByPosition(userID int64, n int) (*Goal, error) {
	goals, err := d.ListGoals(userID)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(goals) {
		return nil, nil
	}
	g := goals[n-1]
	if err := d.DeleteGoal(userID, g.ID); err != nil {
		return nil, err
	}
	return &g, nil
}

// ClearGoals removes all of a user's goals and returns how many went.
func (d *DB) ClearGoals(userID int64) (int64, error) {
	res, err := d.conn.Exec("DELETE FROM goals WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("clearing goals: %w", err)
	}
	return res.RowsAffected()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
