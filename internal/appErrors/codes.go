package appErrors

// Коды ошибок, которые видит клиент
const (
	// Сессия и доступ
	CodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	// Одноразовые ссылки
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired ErrorCode = "TOKEN_EXPIRED"

	// Валидация
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeWeakPassword ErrorCode = "WEAK_PASSWORD"

	// Ресурсы
	CodeNotFound ErrorCode = "NOT_FOUND"

	// Бизнес-логика
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeCannotModifySelf   ErrorCode = "CANNOT_MODIFY_SELF"

	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)
