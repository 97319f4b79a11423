package models

import "time"

// Rôles autorisés — ensemble fermé
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID        string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // hash argon2id, jamais exposé
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeRole ramène toute valeur libre vers l'énumération fermée.
// Tout ce qui n'est pas "admin" devient "customer".
func NormalizeRole(role string) string {
	if role == RoleAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
