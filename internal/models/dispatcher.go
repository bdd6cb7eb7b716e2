package models

import "time"

// Dispatcher is an account allowed to operate the kitchen API.
type Dispatcher struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated dispatcher behind a request.
type Identity struct {
	DispatcherID int64  `json:"dispatcher_id"`
	Username     string `json:"username"`
}
