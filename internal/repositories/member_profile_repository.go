package repositories

import (
	"errors"
	"time"

	"estate_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMemberProfileNotFound = errors.New("member profile not found")

type MemberProfileRepository interface {
	FindByUserID(db *gorm.DB, userID string) (*models.MemberProfile, error)

	// Upsert создает профиль или сбрасывает существующий в переданное состояние
	Upsert(db *gorm.DB, profile *models.MemberProfile) error

	UpdateReview(db *gorm.DB, userID string, status models.MemberStatus, feedback *string, reviewerID string, at time.Time) error
}

type memberProfileRepository struct{}

func NewMemberProfileRepository() MemberProfileRepository {
	return &memberProfileRepository{}
}

func (r *memberProfileRepository) FindByUserID(db *gorm.DB, userID string) (*models.MemberProfile, error) {
	var profile models.MemberProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *memberProfileRepository) Upsert(db *gorm.DB, profile *models.MemberProfile) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "admin_feedback", "reviewed_at", "reviewed_by", "updated_at"}),
	}).Create(profile).Error
}

func (r *memberProfileRepository) UpdateReview(db *gorm.DB, userID string, status models.MemberStatus, feedback *string, reviewerID string, at time.Time) error {
	result := db.Model(&models.MemberProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":         status,
			"admin_feedback": feedback,
			"reviewed_at":    at,
			"reviewed_by":    reviewerID,
			"updated_at":     at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberProfileNotFound
	}
	return nil
}
