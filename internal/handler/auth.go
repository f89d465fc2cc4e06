package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rentcar-reservation/internal/config"
	"github.com/iliyamo/rentcar-reservation/internal/repository"
	"github.com/iliyamo/rentcar-reservation/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.  There is
// no self-service signup: staff accounts are provisioned with the
// company, so the surface is login, refresh, logout and me.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID        uint64 `json:"id"`
	CompanyID uint64 `json:"company_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// issuePair mints an access/refresh pair for a user and stores the
// refresh token hash.
func (h *AuthHandler) issuePair(ctx context.Context, userID, companyID uint64, name, role string) (utils.AccessToken, utils.RefreshToken, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, companyID, name, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	return access, refresh, nil
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, refresh, err := h.issuePair(ctx, u.ID, u.CompanyID, u.Name, u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, CompanyID: u.CompanyID, Name: u.Name, Email: u.Email, Role: u.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh rotates a refresh token: the presented token is revoked and
// a new pair is issued in its place.  A replayed or expired token
// gets 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ConsumeRefresh(ctx, utils.HashRefreshRaw(req.RefreshToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	access, refresh, err := h.issuePair(ctx, u.ID, u.CompanyID, u.Name, u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, CompanyID: u.CompanyID, Name: u.Name, Email: u.Email, Role: u.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Logout revokes the presented refresh token.  With {"all": true} it
// revokes every active session of the token's owner.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
		All          bool   `json:"all"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	if req.All {
		userID, err := h.Tokens.ConsumeRefresh(ctx, hash)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
		}
	} else if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, CompanyID: u.CompanyID, Name: u.Name, Email: u.Email, Role: u.Role})
}
