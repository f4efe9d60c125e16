package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	ctxUserID = "userID"
	ctxRole   = "userRole"
	ctxEmail  = "userEmail"
)

// Claims are the access token claims issued by the hosted auth provider.
// The subject is the user id. The application role lives in app_metadata;
// the top-level role claim is only honoured when it names an application role.
type Claims struct {
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	AppMetadata struct {
		Role string `json:"role,omitempty"`
	} `json:"app_metadata"`
	jwt.RegisteredClaims
}

func (c *Claims) AppRole() string {
	for _, role := range []string{c.AppMetadata.Role, c.Role} {
		switch role {
		case service.RoleAdmin, service.RoleInstructor, service.RoleLearner:
			return role
		}
	}
	return service.RoleLearner
}

type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(cfg *config.Config) *Authenticator {
	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("AUTH_JWT_SECRET not set, every authenticated request will be rejected")
	}
	return &Authenticator{secret: []byte(cfg.Auth.JWTSecret), issuer: cfg.Auth.Issuer}
}

func (a *Authenticator) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// IssueToken signs a token the way the auth provider does. Used by tooling and tests.
func (a *Authenticator) IssueToken(userID, role, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	claims.AppMetadata.Role = role
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller identity on the gin context.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") || len(a.secret) == 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication required"})
			return
		}
		claims, err := a.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Debug().Err(err).Str("path", ctx.FullPath()).Msg("RequireAuth: rejected token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token"})
			return
		}
		ctx.Set(ctxUserID, claims.Subject)
		ctx.Set(ctxRole, claims.AppRole())
		ctx.Set(ctxEmail, claims.Email)
		ctx.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := ctx.GetString(ctxRole)
		for _, r := range roles {
			if r == role {
				ctx.Next()
				return
			}
		}
		ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "Insufficient permissions"})
	}
}

// CallerFrom returns the identity stored by RequireAuth.
func CallerFrom(ctx *gin.Context) service.Caller {
	return service.Caller{
		UserID: ctx.GetString(ctxUserID),
		Role:   ctx.GetString(ctxRole),
		Email:  ctx.GetString(ctxEmail),
	}
}
