package dto

import "github.com/scalebit/admin-console/internal/domain"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UserCreateRequest payload for admin-created accounts.
type UserCreateRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UserUpdateRequest edits profile fields only.
type UserUpdateRequest struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

// RoleChangeRequest sets a user's role.
type RoleChangeRequest struct {
	Role string `json:"role" form:"role"`
}

// UserDetailView is the user detail dialog.
type UserDetailView struct {
	User          domain.User `json:"user"`
	CanEdit       bool        `json:"can_edit"`
	CanChangeRole bool        `json:"can_change_role"`
}
