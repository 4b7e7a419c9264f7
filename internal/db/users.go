package db

import (
	"database/sql"
	"fmt"
)

type User struct {
	ID        int64  `json:"id"`
	ChatID    string `json:"chat_id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// GetOrCreateUser registers a user on first contact. Repeat contacts
// refresh the stored username, which chat platforms let users change.
func (d *DB) GetOrCreateUser(chatID, username string) (*User, error) {
	_, err := d.conn.Exec(
		"INSERT INTO users (chat_id, username) VALUES (?, ?) ON CONFLICT(chat_id) DO UPDATE SET username = ?",
		chatID, username, username,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	return d.GetUserByChatID(chatID)
}

// GetUserByChatID returns the user for a chat identity, or nil if unknown.
func (d *DB) GetUserByChatID(chatID string) (*User, error) {
	var u User
	err := d.conn.QueryRow(
		"SELECT id, chat_id, username, created_at FROM users WHERE chat_id = ?", chatID,
	).Scan(&u.ID, &u.ChatID, &u.Username, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &u, nil
}

// ListUsers returns all registered users in registration order.
func (d *DB) ListUsers() ([]User, error) {
	rows, err := d.conn.Query("SELECT id, chat_id, username, created_at FROM users ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.ChatID, &u.Username, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
