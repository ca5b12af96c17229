package model

// User is the identity resolved from a bearer credential via /auth/me.
type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}
