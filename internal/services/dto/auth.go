package dto

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"max=255"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EmailRequest - запрос, где нужен только адрес (сброс пароля, повторное письмо)
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirm - подтверждение сброса пароля
type PasswordResetConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// SessionResponse - ответ входа и обновления сессии
type SessionResponse struct {
	Success   bool   `json:"success"`
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// AdminCheckResponse - ответ /session/admin-check
type AdminCheckResponse struct {
	IsAdmin bool   `json:"isAdmin"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse - простой ответ с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// ResetTokenStatus - ответ /reset-token/verify
type ResetTokenStatus struct {
	Valid bool   `json:"valid"`
	Email string `json:"email"`
}
