package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleInspector UserRole = "inspector"
	RoleViewer    UserRole = "viewer"
)

// User is a platform account. Viewers are pinned to their own company and
// only ever see that company's reports.
type User struct {
	ID              string     `db:"id" json:"id"`
	Username        string     `db:"username" json:"username"`
	Email           string     `db:"email" json:"email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	FullName        string     `db:"full_name" json:"full_name"`
	Role            UserRole   `db:"role" json:"role"`
	FirmaAdi        string     `db:"firma_adi" json:"firma_adi"`
	Active          bool       `db:"active" json:"active"`
	ActiveSessionID *string    `db:"active_session_id" json:"-"`
	LastLogin       *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// CanEdit reports whether the role may create, mutate, or delete reports.
func (r UserRole) CanEdit() bool {
	return r == RoleAdmin || r == RoleInspector
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
