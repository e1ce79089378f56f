// Package requests contains the HTTP request DTOs for the panel API.
package requests

// LoginRequest is the password-grant login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RecoverRequest asks for a password-recovery email.
type RecoverRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UpdatePasswordRequest changes the operator's password.
type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateProfileRequest edits the operator's display name.
type UpdateProfileRequest struct {
	Name string `json:"nome" binding:"required"`
}

// UpdateStatusRequest moves a conversation to a new handling state.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SendMessageRequest is an operator message for a conversation.
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateUserRequest registers a WhatsApp user.
type CreateUserRequest struct {
	Name  string `json:"nome" binding:"required"`
	Phone string `json:"telefone" binding:"required"`
}

// UpdateUserRequest edits a WhatsApp user. Empty fields stay untouched.
type UpdateUserRequest struct {
	Name  string `json:"nome"`
	Phone string `json:"telefone"`
}

// ToggleActiveRequest flips a user's active flag.
type ToggleActiveRequest struct {
	Active *bool `json:"ativo" binding:"required"`
}

// CreatePlatformUserRequest registers an operator account.
type CreatePlatformUserRequest struct {
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}
