package models

import "time"

type User struct {
	ID        string
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Privileged reports whether the user's role allows acting on tasks
// owned by other users.
func (u *User) Privileged() bool {
	return u.Role == RoleAdmin
}
