package models

import (
	"time"

	"github.com/lib/pq"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
)

// User represents a school member stored in the users table.
type User struct {
	ID              string         `db:"id" json:"id"`
	SchoolID        string         `db:"school_id" json:"school_id"`
	Email           string         `db:"email" json:"email"`
	PasswordHash    string         `db:"password_hash" json:"-"`
	FullName        string         `db:"full_name" json:"full_name"`
	Role            UserRole       `db:"role" json:"role"`
	AssignedClasses pq.StringArray `db:"assigned_classes" json:"assigned_classes"`
	Active          bool           `db:"active" json:"active"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// CanAccessClass reports whether the user may enter or view scores for the class.
// Admins see every class; teachers only the classes assigned to them.
func (u *User) CanAccessClass(className string) bool {
	if u == nil {
		return false
	}
	return canAccessClass(u.Role, u.AssignedClasses, className)
}

func canAccessClass(role UserRole, assigned []string, className string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleTeacher:
		for _, c := range assigned {
			if c == className {
				return true
			}
		}
	}
	return false
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
