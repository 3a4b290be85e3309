package appErrors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// AppError - основная структура ошибки приложения
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"error"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Конструктор
func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// С цепочкой ошибок
func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

// WithDetails возвращает копию, предопределенные ошибки не мутируются
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithError возвращает копию с причиной
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// Is сравнивает по коду, чтобы копии предопределенных ошибок совпадали с оригиналом
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Is - обертка над стандартной функцией errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As - обертка над стандартной функцией errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// AsAppError - пытается привести error к *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Предопределенные ошибки
var (
	// Сессия
	ErrUnauthenticated    = New(CodeUnauthenticated, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)

	// Ссылки из писем
	ErrInvalidToken = New(CodeInvalidToken, "check your link", http.StatusBadRequest)
	ErrTokenExpired = New(CodeTokenExpired, "link expired, request a new one", http.StatusBadRequest)

	// Пользователи
	ErrUserNotFound       = New(CodeNotFound, "User not found", http.StatusNotFound)
	ErrEmailAlreadyExists = New(CodeEmailAlreadyExists, "Email already exists", http.StatusBadRequest)
	ErrWeakPassword       = New(CodeWeakPassword, "Password must be at least 8 characters", http.StatusBadRequest)
	ErrCannotModifySelf   = New(CodeCannotModifySelf, "Cannot modify your own account", http.StatusBadRequest)

	// Валидация
	ErrInvalidInput = New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)

	// Платежи
	ErrPaymentIntentFailed = New(CodeInternalError, "Failed to create payment intent", http.StatusInternalServerError)
)

// Функции-помощники для создания ошибок с деталями
func ValidationError(details interface{}) *AppError {
	return ErrInvalidInput.WithDetails(details)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthenticated, message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}
