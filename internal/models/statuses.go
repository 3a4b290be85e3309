package models

type UserRole string
type MemberStatus string
type TokenKind string
type PaymentStatus string
type BillingCycle string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	MemberStatusPending   MemberStatus = "pending"
	MemberStatusActive    MemberStatus = "active"
	MemberStatusRejected  MemberStatus = "rejected"
	MemberStatusCancelled MemberStatus = "cancelled"

	TokenKindPasswordReset     TokenKind = "password_reset"
	TokenKindEmailVerification TokenKind = "email_verification"

	PaymentStatusCreated PaymentStatus = "created"
	PaymentStatusFailed  PaymentStatus = "failed"

	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberStatusPending, MemberStatusActive, MemberStatusRejected, MemberStatusCancelled:
		return true
	}
	return false
}

func (k TokenKind) IsValid() bool {
	return k == TokenKindPasswordReset || k == TokenKindEmailVerification
}

func (c BillingCycle) IsValid() bool {
	return c == BillingCycleMonthly || c == BillingCycleYearly
}
