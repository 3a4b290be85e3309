package models

import "time"

// AuthToken - одноразовая ссылка (сброс пароля, подтверждение email).
// Пара (kind, token) уникальна. Истекшим считается токен, у которого now > ExpiresAt.
type AuthToken struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Kind      TokenKind `gorm:"type:varchar(32);not null;uniqueIndex:idx_auth_tokens_kind_token,priority:1;index:idx_auth_tokens_kind_email,priority:1"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_auth_tokens_kind_token,priority:2"`
	Email     string    `gorm:"type:varchar(255);not null;index:idx_auth_tokens_kind_email,priority:2"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func (t *AuthToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
