package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	SessionService       SessionService
	AuthService          AuthService
	TokenService         TokenService
	VerificationService  VerificationService
	PasswordResetService PasswordResetService
	MemberService        MemberService
	UserService          UserService
	PaymentService       PaymentService
	EmailService         *EmailService
}
