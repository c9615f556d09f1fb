package domain

// User is an account managed through the users service.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role,omitempty"`
}

// NewUser is the payload for creating a user.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate is the payload for editing a user's profile.
type UserUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
