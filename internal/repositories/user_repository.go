package repositories

import (
	"errors"
	"time"

	"estate_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)

	// MarkEmailVerified ставит отметку только если ее еще нет.
	// false без ошибки - отметка уже была или пользователя нет.
	MarkEmailVerified(db *gorm.DB, email string, at time.Time) (bool, error)
	UpdatePassword(db *gorm.DB, userID, passwordHash string) error
	UpdateRole(db *gorm.DB, userID string, role models.UserRole) error
	CountByRole(db *gorm.DB, role models.UserRole) (int64, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) MarkEmailVerified(db *gorm.DB, email string, at time.Time) (bool, error) {
	result := db.Model(&models.User{}).
		Where("email = ? AND email_verified IS NULL", email).
		Updates(map[string]interface{}{
			"email_verified": at,
			"updated_at":     at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *userRepository) UpdatePassword(db *gorm.DB, userID, passwordHash string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateRole(db *gorm.DB, userID string, role models.UserRole) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) CountByRole(db *gorm.DB, role models.UserRole) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
