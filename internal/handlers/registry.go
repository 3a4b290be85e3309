package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	SessionHandler  *SessionHandler
	EmailHandler    *EmailHandler
	PasswordHandler *PasswordHandler
	MemberHandler   *MemberHandler
	AdminHandler    *AdminHandler
	PaymentHandler  *PaymentHandler
	HealthHandler   *HealthHandler
}
