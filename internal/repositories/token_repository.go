package repositories

import (
	"errors"
	"time"

	"estate_backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrTokenNotFound возвращается, когда одноразового токена нет в БД
	ErrTokenNotFound = errors.New("token not found")
)

// TokenRepository - хранилище одноразовых ссылок (сброс пароля, подтверждение email)
type TokenRepository interface {
	Create(db *gorm.DB, token *models.AuthToken) error

	// FindByToken ищет токен внутри своего вида
	FindByToken(db *gorm.DB, kind models.TokenKind, token string) (*models.AuthToken, error)

	// DeleteByID - условное удаление. true получает ровно один вызывающий,
	// все остальные конкуренты видят false.
	DeleteByID(db *gorm.DB, id string) (bool, error)

	// DeleteByEmail удаляет все токены вида для адреса
	DeleteByEmail(db *gorm.DB, kind models.TokenKind, email string) (int64, error)

	// DeleteExpired удаляет токены с expires_at < now
	DeleteExpired(db *gorm.DB, now time.Time) (int64, error)
}

type tokenRepository struct{}

func NewTokenRepository() TokenRepository {
	return &tokenRepository{}
}

func (r *tokenRepository) Create(db *gorm.DB, token *models.AuthToken) error {
	return db.Create(token).Error
}

func (r *tokenRepository) FindByToken(db *gorm.DB, kind models.TokenKind, token string) (*models.AuthToken, error) {
	var t models.AuthToken
	if err := db.Where("kind = ? AND token = ?", kind, token).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepository) DeleteByID(db *gorm.DB, id string) (bool, error) {
	result := db.Where("id = ?", id).Delete(&models.AuthToken{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *tokenRepository) DeleteByEmail(db *gorm.DB, kind models.TokenKind, email string) (int64, error) {
	result := db.Where("kind = ? AND email = ?", kind, email).Delete(&models.AuthToken{})
	return result.RowsAffected, result.Error
}

func (r *tokenRepository) DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.AuthToken{})
	return result.RowsAffected, result.Error
}
