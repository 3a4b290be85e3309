package handlers

import (
	"net/http"
	"time"

	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// SessionCookie - параметры cookie с учетными данными сессии
type SessionCookie struct {
	Name   string
	Domain string
	Secure bool
}

func (s SessionCookie) set(c *gin.Context, session *services.SessionToken) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, session.Token, maxAge, "/", s.Domain, s.Secure, true)
}

func (s SessionCookie) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", s.Domain, s.Secure, true)
}

func sessionResponse(session *services.SessionToken) *dto.SessionResponse {
	return &dto.SessionResponse{
		Success:   true,
		UserID:    session.Principal.ID,
		Role:      string(session.Principal.Role),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Unix(),
	}
}
