package services

import (
	"errors"

	"estate_backend/internal/appErrors"
	"estate_backend/internal/auth"
	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"

	"gorm.io/gorm"
)

type MemberService interface {
	// Status - статус членства; без профиля все поля пустые, это не ошибка
	Status(db *gorm.DB, userID string) (*dto.MemberStatusResponse, error)

	// Membership - то же в виде, нужном для проверки доступа
	Membership(db *gorm.DB, userID string) (*auth.Membership, error)

	// Apply подает (или повторно подает) заявку
	Apply(db *gorm.DB, userID string) (*dto.MemberStatusResponse, error)

	// Review - решение администратора
	Review(db *gorm.DB, adminID, userID string, req *dto.ReviewMemberRequest) (*dto.MemberStatusResponse, error)
}

type MemberServiceImpl struct {
	profileRepo repositories.MemberProfileRepository
	userRepo    repositories.UserRepository
	now         Clock
}

func NewMemberService(profileRepo repositories.MemberProfileRepository, userRepo repositories.UserRepository, clock Clock) MemberService {
	if clock == nil {
		clock = systemClock
	}
	return &MemberServiceImpl{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		now:         clock,
	}
}

func (s *MemberServiceImpl) Membership(db *gorm.DB, userID string) (*auth.Membership, error) {
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if errors.Is(err, repositories.ErrMemberProfileNotFound) {
		return &auth.Membership{}, nil
	}
	if err != nil {
		return nil, err
	}

	// статус вне закрытого набора не должен открывать доступ
	if !profile.Status.IsValid() {
		return nil, appErrors.InternalError(errors.New("member profile has unknown status " + string(profile.Status)))
	}

	m := auth.MembershipFromProfile(profile)
	return &m, nil
}

func (s *MemberServiceImpl) Status(db *gorm.DB, userID string) (*dto.MemberStatusResponse, error) {
	m, err := s.Membership(db, userID)
	if err != nil {
		return nil, err
	}
	return toMemberStatusResponse(m), nil
}

func (s *MemberServiceImpl) Apply(db *gorm.DB, userID string) (*dto.MemberStatusResponse, error) {
	current, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil && !errors.Is(err, repositories.ErrMemberProfileNotFound) {
		return nil, err
	}
	if current != nil && current.Status == models.MemberStatusActive {
		return nil, appErrors.NewBadRequestError("membership is already active")
	}

	profile := &models.MemberProfile{
		UserID: userID,
		Status: models.MemberStatusPending,
	}
	if err := s.profileRepo.Upsert(db, profile); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctxOf(db), "membership application submitted", "user_id", userID)
	return s.Status(db, userID)
}

func (s *MemberServiceImpl) Review(db *gorm.DB, adminID, userID string, req *dto.ReviewMemberRequest) (*dto.MemberStatusResponse, error) {
	if !req.Status.IsValid() {
		return nil, appErrors.NewBadRequestError("invalid member status")
	}

	err := s.profileRepo.UpdateReview(db, userID, req.Status, req.Feedback, adminID, s.now().UTC())
	if errors.Is(err, repositories.ErrMemberProfileNotFound) {
		return nil, appErrors.NotFound("Member profile")
	}
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctxOf(db), "membership reviewed", "user_id", userID, "status", req.Status, "admin_id", adminID)
	return s.Status(db, userID)
}

func toMemberStatusResponse(m *auth.Membership) *dto.MemberStatusResponse {
	return &dto.MemberStatusResponse{
		Status:        m.Status,
		IsEarlyAccess: m.IsEarlyAccess,
		AdminFeedback: m.AdminFeedback,
	}
}
