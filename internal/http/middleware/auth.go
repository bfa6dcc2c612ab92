package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/http/response"
	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/requestdata"
	"github.com/kitzurapp/qa-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth rejects requests without a valid token. The resolved
// identity is attached to the request context for the handlers below.
// Token resolution failures keep their own taxonomy: a token carrying an
// unknown role claim is permission-denied, not unauthenticated.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.RespondError(c, fmt.Errorf("missing or invalid token: %w", apperr.ErrUnauthenticated))
			c.Abort()
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			response.RespondError(c, err)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		rd := requestdata.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			response.RespondError(c, fmt.Errorf("token resolved no user: %w", apperr.ErrPermissionDenied))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ResolveIdentity is the permissive variant for public routes: a valid
// token resolves the acting user, an X-Anon-Session header resolves an
// anonymous caller, and neither leaves the request unidentified (the
// services decide whether that is acceptable per operation).
func (am *AuthMiddleware) ResolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extractToken(c); tokenString != "" {
			if ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString); err == nil {
				c.Request = c.Request.WithContext(ctx)
				c.Next()
				return
			}
			am.log.Debug("Ignoring invalid token on public route")
		}
		if anon := strings.TrimSpace(c.GetHeader("X-Anon-Session")); anon != "" {
			ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
				AnonSessionID: anon,
			})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
