package models

import "time"

type User struct {
	BaseModel
	Email         string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name          string     `gorm:"type:varchar(255)" json:"name"`
	PasswordHash  string     `gorm:"not null" json:"-"`
	Role          UserRole   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	EmailVerified *time.Time `json:"emailVerified"`

	// Relations
	MemberProfile *MemberProfile `gorm:"foreignKey:UserID" json:"memberProfile,omitempty"`
}

func (u *User) IsEmailVerified() bool {
	return u.EmailVerified != nil
}

// MemberProfile - заявка пользователя на членство в клубе
type MemberProfile struct {
	BaseModel
	UserID        string       `gorm:"type:varchar(36);uniqueIndex;not null" json:"userId"`
	Status        MemberStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	IsEarlyAccess bool         `gorm:"not null;default:false" json:"isEarlyAccess"`
	AdminFeedback *string      `gorm:"type:text" json:"adminFeedback"`
	ReviewedAt    *time.Time   `json:"reviewedAt,omitempty"`
	ReviewedBy    *string      `gorm:"type:varchar(36)" json:"reviewedBy,omitempty"`
}
