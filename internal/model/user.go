package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"-"`
}

// Session is the authenticated identity carried through a request,
// extracted from a validated token.
type Session struct {
	Username string
	Role     string
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
