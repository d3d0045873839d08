package sessions

import (
	"errors"
	"net/http"
	"time"

	"jobboard/account"
	"jobboard/authority"
	"jobboard/bizerror"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/jinzhu/gorm"
	"golang.org/x/time/rate"
)

const (
	PathAuth = "/v1/auth"

	// KeyRefreshToken is the cookie carrying the refresh credential. It is
	// httpOnly and scoped to the auth endpoints only.
	KeyRefreshToken = "refresh_token"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthenticatedUser struct {
	ID     types.ID         `json:"id"`
	Name   string           `json:"name"`
	Email  string           `json:"email"`
	RoleID types.ID         `json:"roleId"`
	Perms  authority.Grants `json:"perms"`
}

type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	User        AuthenticatedUser `json:"user"`
}

// AuthHandler drives the credential state machine: login, refresh
// rotation, logout and the current-principal view. All of its
// configuration is injected at construction.
type AuthHandler struct {
	cfg           *session.AuthConfig
	issuer        *session.TokenIssuer
	accountManage *account.AccountManage

	loginLimiter *rate.Limiter
}

func NewAuthHandler(cfg *session.AuthConfig) *AuthHandler {
	return &AuthHandler{
		cfg:           cfg,
		issuer:        session.NewTokenIssuer(cfg),
		accountManage: account.NewAccountManage(cfg),
		loginLimiter:  rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
	}
}

func (h *AuthHandler) TokenIssuer() *session.TokenIssuer {
	return h.issuer
}

func RegisterAuthRestAPI(r *gin.Engine, h *AuthHandler, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathAuth, middleWares...)

	g.POST("login", h.handleLogin)
	g.POST("register", h.handleRegister)
	g.GET("refresh", h.handleRefresh)
	g.GET("me", h.handleMe)
	g.GET("logout", h.handleLogout)

	session.MarkPublicRoute(http.MethodPost, PathAuth+"/login")
	session.MarkPublicRoute(http.MethodPost, PathAuth+"/register")
	session.MarkPublicRoute(http.MethodGet, PathAuth+"/refresh")
}

func (h *AuthHandler) handleLogin(c *gin.Context) {
	if !h.loginLimiter.Allow() {
		panic(bizerror.ErrTooManyRequests)
	}

	login := LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	// unknown email and wrong password fail identically
	user, err := h.accountManage.FindUserByEmail(c.Request.Context(), login.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			panic(bizerror.ErrInvalidCredentials)
		}
		panic(err)
	}
	if !account.VerifyPassword(login.Password, user.Secret) {
		panic(bizerror.ErrInvalidCredentials)
	}

	h.openSession(c, user)
}

func (h *AuthHandler) handleRegister(c *gin.Context) {
	registration := account.UserRegistration{}
	if err := c.ShouldBindBodyWith(&registration, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	info, err := h.accountManage.RegisterUser(c.Request.Context(), &registration)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, info)
}

func (h *AuthHandler) handleMe(c *gin.Context) {
	sec := session.FindSecurityContext(c)
	if sec == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	c.JSON(http.StatusOK, gin.H{"user": AuthenticatedUser{
		ID: sec.Identity.ID, Name: sec.Identity.Name, Email: sec.Identity.Email, Perms: sec.Perms,
	}})
}

// handleRefresh rotates the token pair: the presented refresh token must
// exactly match the stored one, and is superseded by the new one. Reuse of
// a rotated-away token fails with session_not_found.
func (h *AuthHandler) handleRefresh(c *gin.Context) {
	refreshToken, err := c.Cookie(KeyRefreshToken)
	if err != nil || refreshToken == "" {
		panic(bizerror.ErrInvalidToken)
	}
	if _, err := h.issuer.VerifyRefreshToken(refreshToken); err != nil {
		panic(err)
	}

	user, err := h.accountManage.FindUserByRefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			panic(bizerror.ErrSessionNotFound)
		}
		panic(err)
	}

	h.openSession(c, user)
}

// handleLogout clears the stored refresh token and expires the cookie.
// Repeating it is harmless.
func (h *AuthHandler) handleLogout(c *gin.Context) {
	sec := session.FindSecurityContext(c)
	if sec == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	if err := h.accountManage.ClearUserRefreshToken(c.Request.Context(), sec.Identity.ID); err != nil {
		panic(err)
	}
	c.SetCookie(KeyRefreshToken, "", -1, PathAuth, "", false, true)
	c.JSON(http.StatusOK, gin.H{})
}

// openSession resolves a fresh grant snapshot, issues a new token pair and
// persists the rotated refresh token.
func (h *AuthHandler) openSession(c *gin.Context, user *account.User) {
	grants, err := authority.ResolvePermissions(c.Request.Context(), user.RoleID)
	if err != nil {
		panic(err)
	}
	identity := session.Identity{ID: user.ID, Name: user.Name, Email: user.Email}

	accessToken, err := h.issuer.IssueAccessToken(identity, grants)
	if err != nil {
		panic(err)
	}
	refreshToken, err := h.issuer.IssueRefreshToken(identity)
	if err != nil {
		panic(err)
	}
	if err := h.accountManage.UpdateUserRefreshToken(c.Request.Context(), user.ID, refreshToken); err != nil {
		panic(err)
	}

	c.SetCookie(KeyRefreshToken, refreshToken, int(h.cfg.RefreshTokenExpiration/time.Second), PathAuth, "", false, true)
	c.JSON(http.StatusOK, &LoginResponse{AccessToken: accessToken, User: AuthenticatedUser{
		ID: user.ID, Name: user.Name, Email: user.Email, RoleID: user.RoleID, Perms: grants,
	}})
}
