package dto

import "time"

// SignUpRequest entrada para registro público (solo farmer o buyer).
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=200"`
	Role     string `json:"role" validate:"required,oneof=farmer buyer"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios (admin).
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y el tablero al que debe ir el cliente.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
	Home      string       `json:"home"`
}

// SessionResponse estado de la sesión actual (GET /api/session).
type SessionResponse struct {
	Status string `json:"status"` // authenticated | unauthenticated
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	Home   string `json:"home"`
}

// ViewDecisionResponse resultado del gate para una vista del cliente.
type ViewDecisionResponse struct {
	Path       string `json:"path"`
	Decision   string `json:"decision"` // allow | redirect | wait
	RedirectTo string `json:"redirect_to,omitempty"`
}
