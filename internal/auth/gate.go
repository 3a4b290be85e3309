package auth

import "estate_backend/internal/models"

// Requirement - условие доступа к маршруту
type Requirement string

const (
	RequireAuthenticated Requirement = "authenticated"
	RequireAdmin         Requirement = "admin"
	RequireVerifiedEmail Requirement = "verified-email"
	RequireActiveMember  Requirement = "active-member"
)

// DenyReason - причина отказа, по ней выбирается страница исправления
type DenyReason string

const (
	ReasonNone              DenyReason = ""
	ReasonUnauthenticated   DenyReason = "unauthenticated"
	ReasonForbiddenRole     DenyReason = "forbidden-role"
	ReasonEmailUnverified   DenyReason = "email-unverified"
	ReasonMembershipPending DenyReason = "membership-pending"
)

// Membership - статус членства. Отсутствие профиля - это {nil, false}, а не ошибка.
type Membership struct {
	Status        *models.MemberStatus `json:"status"`
	IsEarlyAccess bool                 `json:"isEarlyAccess"`
	AdminFeedback *string              `json:"adminFeedback"`
}

func MembershipFromProfile(p *models.MemberProfile) Membership {
	if p == nil {
		return Membership{}
	}
	status := p.Status
	return Membership{
		Status:        &status,
		IsEarlyAccess: p.IsEarlyAccess,
		AdminFeedback: p.AdminFeedback,
	}
}

func (m *Membership) IsActive() bool {
	return m != nil && m.Status != nil && *m.Status == models.MemberStatusActive
}

// Decision - результат проверки доступа
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(r DenyReason) Decision { return Decision{Reason: r} }

// Authorize - чистая функция без ввода-вывода. Требования проверяются по порядку,
// побеждает первое невыполненное. Без principal всегда unauthenticated.
func Authorize(p *Principal, m *Membership, reqs ...Requirement) Decision {
	if p == nil {
		return deny(ReasonUnauthenticated)
	}

	for _, req := range reqs {
		switch req {
		case RequireAuthenticated:
		case RequireAdmin:
			if !p.IsAdmin() {
				return deny(ReasonForbiddenRole)
			}
		case RequireVerifiedEmail:
			if !p.IsEmailVerified() {
				return deny(ReasonEmailUnverified)
			}
		case RequireActiveMember:
			if !m.IsActive() {
				return deny(ReasonMembershipPending)
			}
		default:
			// Неизвестное требование не должно открывать доступ
			return deny(ReasonForbiddenRole)
		}
	}
	return allow()
}

// NeedsMembership - нужен ли профиль членства для проверки требований
func NeedsMembership(reqs ...Requirement) bool {
	for _, r := range reqs {
		if r == RequireActiveMember {
			return true
		}
	}
	return false
}

// RemediationPaths - куда отправить пользователя при отказе
type RemediationPaths struct {
	Login             string
	Unauthorized      string
	VerifyEmailNotice string
	BecomeMember      string
}

func DefaultRemediationPaths() RemediationPaths {
	return RemediationPaths{
		Login:             "/login",
		Unauthorized:      "/unauthorized",
		VerifyEmailNotice: "/verify-email-notice",
		BecomeMember:      "/become-member",
	}
}

func (r RemediationPaths) For(reason DenyReason) string {
	switch reason {
	case ReasonUnauthenticated:
		return r.Login
	case ReasonForbiddenRole:
		return r.Unauthorized
	case ReasonEmailUnverified:
		return r.VerifyEmailNotice
	case ReasonMembershipPending:
		return r.BecomeMember
	}
	return ""
}
