package models

import "time"

// DefaultHeadPosition is used when a school does not name its head's title.
const DefaultHeadPosition = "Principal"

// School is a registered tenant owning users, templates and result sets.
type School struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	HeadPosition string    `db:"head_position" json:"head_position"`
	Logo         string    `db:"logo" json:"logo,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
