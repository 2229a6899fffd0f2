package dto

// RegisterRequest is the payload for creating an administrative user
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64" example:"admin"`
	Password string `json:"password" binding:"required,min=8" example:"Admin123!"`
	Role     string `json:"role" binding:"omitempty,max=32" example:"admin"`
}

// LoginRequest is the payload for authenticating a user
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"Admin123!"`
}

// UserResponse is the public view of a user record
type UserResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"admin"`
	Role     string `json:"role" example:"admin"`
}

// AuthResponse is returned on successful login or registration
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn" example:"86400"`
	User      UserResponse `json:"user"`
}
