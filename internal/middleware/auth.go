package middleware

import (
	"errors"
	"net/http"
	"strings"

	"estate_backend/internal/appErrors"
	"estate_backend/internal/auth"
	"estate_backend/internal/logger"
	"estate_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errNoDB = errors.New("db is not set in request context")

// SessionResolver разбирает учетные данные запроса
type SessionResolver interface {
	Resolve(token string) (*auth.Principal, bool)
}

// MembershipLoader загружает членство для проверки доступа
type MembershipLoader interface {
	Membership(db *gorm.DB, userID string) (*auth.Membership, error)
}

// SessionMiddleware определяет principal запроса: сначала заголовок
// Authorization: Bearer, затем cookie. Запрос не прерывается: отсутствие
// или негодность учетных данных означает анонимный запрос.
// Негодный заголовок равен его отсутствию, поэтому cookie проверяется и после него.
func SessionMiddleware(sessions SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := sessions.Resolve(bearerToken(c))
		if !ok && cookieName != "" {
			if cookie, err := c.Cookie(cookieName); err == nil {
				principal, ok = sessions.Resolve(cookie)
			}
		}

		if ok {
			c.Set(string(contextkeys.PrincipalContextKey), principal)
			ctx := logger.WithUserID(c.Request.Context(), principal.ID)
			c.Request = c.Request.WithContext(ctx)

			// логи сервисов берут контекст из db
			if val, exists := c.Get(string(contextkeys.DBContextKey)); exists {
				if db, isDB := val.(*gorm.DB); isDB && db.Statement != nil {
					c.Set(string(contextkeys.DBContextKey), db.WithContext(ctx))
				}
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// CurrentPrincipal - principal запроса или nil для анонима
func CurrentPrincipal(c *gin.Context) *auth.Principal {
	val, ok := c.Get(string(contextkeys.PrincipalContextKey))
	if !ok {
		return nil
	}
	p, _ := val.(*auth.Principal)
	return p
}

// Gate применяет требования доступа к маршрутам
type Gate struct {
	members MembershipLoader
	paths   auth.RemediationPaths
}

func NewGate(members MembershipLoader, paths auth.RemediationPaths) *Gate {
	return &Gate{members: members, paths: paths}
}

// Require пропускает запрос, только если выполнены все требования.
// Отказ: браузеру 302 на страницу исправления, API - JSON с reason и redirect.
func (g *Gate) Require(reqs ...auth.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)

		var membership *auth.Membership
		if principal != nil && auth.NeedsMembership(reqs...) {
			db, ok := c.Get(string(contextkeys.DBContextKey))
			gdb, _ := db.(*gorm.DB)
			if !ok || gdb == nil {
				appErrors.HandleError(c, appErrors.InternalError(errNoDB))
				return
			}

			m, err := g.members.Membership(gdb, principal.ID)
			if err != nil {
				appErr, ok := appErrors.AsAppError(err)
				if !ok {
					appErr = appErrors.InternalError(err)
				}
				appErrors.HandleError(c, appErr)
				return
			}
			membership = m
		}

		decision := auth.Authorize(principal, membership, reqs...)
		if decision.Allowed {
			c.Next()
			return
		}
		g.deny(c, decision.Reason)
	}
}

func (g *Gate) deny(c *gin.Context, reason auth.DenyReason) {
	redirect := g.paths.For(reason)

	logger.CtxDebug(c.Request.Context(), "access denied",
		"reason", reason,
		"path", c.Request.URL.Path,
	)

	if wantsHTML(c) && redirect != "" {
		c.Redirect(http.StatusFound, redirect)
		c.Abort()
		return
	}

	appErr := appErrors.ErrForbidden
	if reason == auth.ReasonUnauthenticated {
		appErr = appErrors.ErrUnauthenticated
	}
	c.AbortWithStatusJSON(appErr.HTTPCode, gin.H{
		"error":    appErr.Message,
		"code":     appErr.Code,
		"reason":   reason,
		"redirect": redirect,
	})
}

// wantsHTML - запрос пришел из браузерной навигации
func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
