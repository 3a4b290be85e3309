package dto

import "estate_backend/internal/models"

// MemberStatusResponse - ответ /member/status. Без профиля все поля null/false.
type MemberStatusResponse struct {
	Status        *models.MemberStatus `json:"status"`
	IsEarlyAccess bool                 `json:"isEarlyAccess"`
	AdminFeedback *string              `json:"adminFeedback"`
}

// ReviewMemberRequest - решение администратора по заявке
type ReviewMemberRequest struct {
	Status   models.MemberStatus `json:"status" binding:"required" validate:"is-member-status"`
	Feedback *string             `json:"feedback" binding:"omitempty,max=2000"`
}
