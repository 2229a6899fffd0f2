package models

// Default role assigned to newly registered users
const RoleAdmin = "admin"

// User defines an administrative credential based on the 'users' table
type User struct {
	ID       int64  `json:"id" db:"id" example:"1"`                   // Unique identifier for the user
	Username string `json:"username" db:"username" example:"admin"`   // Login name, unique
	Password string `json:"-" db:"password"`                          // bcrypt hash, never serialized
	Role     string `json:"role" db:"role" example:"admin"`           // Role label
}
