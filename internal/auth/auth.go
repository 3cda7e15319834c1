// Package auth issues and checks the signed session tokens that guard the
// REST API and the admin pages. Browsers carry the token in a cookie, API
// clients in an Authorization header; both are accepted everywhere.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/annotation-layers/backend/internal/config"
	"github.com/annotation-layers/backend/internal/i18n"
	"github.com/annotation-layers/backend/internal/models"
)

// CookieName is the browser session cookie.
const CookieName = "session"

const (
	issuer     = "annotation-layers"
	subjectKey = "auth.subject"
)

var (
	ErrMissingToken   = errors.New("missing authentication token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrBadCredentials = errors.New("invalid username or password")
)

// Authenticator signs and verifies HS256 session tokens.
type Authenticator struct {
	secret   []byte
	ttl      time.Duration
	username string
	password string
	secure   bool
	logger   *zap.Logger
	now      func() time.Time
}

// New creates an Authenticator from configuration.
func New(cfg *config.Config, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		secret:   []byte(cfg.SecretKey),
		ttl:      cfg.SessionTTL,
		username: cfg.AdminUsername,
		password: cfg.AdminPassword,
		secure:   !cfg.IsDevelopment(),
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks the credentials and issues a token for the user.
func (a *Authenticator) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		a.logger.Warn("Rejected login", zap.String("username", username))
		return "", ErrBadCredentials
	}
	return a.Issue(username)
}

// Issue signs a token for subject.
func (a *Authenticator) Issue(subject string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies a token and returns its subject.
func (a *Authenticator) Validate(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// tokenFromRequest prefers a bearer header over the session cookie.
func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return token
		}
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (a *Authenticator) authenticate(c *gin.Context) error {
	subject, err := a.Validate(tokenFromRequest(c.Request))
	if err != nil {
		return err
	}
	c.Set(subjectKey, subject)
	return nil
}

// RequireAPI rejects unauthenticated requests with 401 and a message in
// the caller's language.
func (a *Authenticator) RequireAPI(tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.authenticate(c); err != nil {
			a.logger.Debug("Unauthenticated API request", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: i18n.T(tr.ForRequest(c.Request), reason(err)),
			})
			return
		}
		c.Next()
	}
}

// reason is the catalog message for an authentication failure.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "Missing authentication token."
	case errors.Is(err, ErrExpiredToken):
		return "Token has expired."
	default:
		return "Invalid token."
	}
}

// RequireBrowser redirects unauthenticated requests to loginPath.
func (a *Authenticator) RequireBrowser(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.authenticate(c); err != nil {
			c.Redirect(http.StatusFound, loginPath+"?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookie stores token as the browser session.
func (a *Authenticator) SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(a.ttl.Seconds()), "/", "", a.secure, true)
}

// ClearSessionCookie ends the browser session.
func (a *Authenticator) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", a.secure, true)
}

// Subject returns the authenticated user of the request, if any.
func Subject(c *gin.Context) string {
	return c.GetString(subjectKey)
}
