package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/config"
	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/passreset"
	"github.com/iliyamo/fitness-tracker/internal/repository"
	"github.com/iliyamo/fitness-tracker/internal/session"
	"github.com/iliyamo/fitness-tracker/internal/utils"
)

// AuthHandler bundles dependencies for the credential endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions session.Store
	Resets   passreset.Store
	Log      *zap.Logger

	now func() time.Time
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s session.Store, r passreset.Store, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Resets: r, Log: log, now: time.Now}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetReq struct {
	Action      string `json:"action"` // request | reset
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func profileOf(u *model.User) session.Profile {
	return session.Profile{
		UserID:       u.ID,
		Name:         u.Name,
		Surname:      u.Surname,
		Email:        u.Email,
		Country:      u.Country,
		ProfileImage: u.ProfileImage,
	}
}

func setSessionCookie(c echo.Context, cfg config.Config, token string) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context, cfg config.Config) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// Register creates an account.  It does not log the user in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email and password are required")
	}
	if msg := checkPassword(req.Password); msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u := &model.User{
		Name:    strings.TrimSpace(req.Name),
		Surname: strings.TrimSpace(req.Surname),
		Email:   req.Email,
		Country: strings.TrimSpace(req.Country),
	}
	if err := h.Users.Create(ctx, u, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return serverError(c, h.Log, "register failed", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "registered", "user": u})
}

// Login verifies the credentials, opens a session and sets its cookie.
// Unknown emails and wrong passwords produce the same response and cost.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email and password are required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		utils.BurnPasswordCheck(req.Password, h.Cfg.BcryptCost)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return serverError(c, h.Log, "login lookup failed", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.Sessions.Create(ctx, profileOf(u))
	if err != nil {
		return serverError(c, h.Log, "create session failed", err)
	}
	setSessionCookie(c, h.Cfg, token)
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// Logout drops the server-side session, if any, and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(h.Cfg.SessionCookie); err == nil && ck.Value != "" {
		if err := h.Sessions.Delete(c.Request().Context(), ck.Value); err != nil {
			return serverError(c, h.Log, "delete session failed", err)
		}
	}
	clearSessionCookie(c, h.Cfg)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// ResetPassword runs the two phases of the one-time code flow.  There is no
// mail delivery: the "request" phase returns the code in the response.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" {
		return badRequest(c, "email is required")
	}

	switch req.Action {
	case "request":
		return h.requestReset(c, req)
	case "reset":
		return h.completeReset(c, req)
	default:
		return badRequest(c, "action must be request or reset")
	}
}

func (h *AuthHandler) requestReset(c echo.Context, req resetReq) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "email not found"})
		}
		return serverError(c, h.Log, "reset lookup failed", err)
	}

	code, err := utils.NewResetCode()
	if err != nil {
		return serverError(c, h.Log, "generate reset code failed", err)
	}
	pending := passreset.Request{Code: code, ExpiresAt: h.now().Add(h.Cfg.ResetCodeTTL)}
	if err := h.Resets.Save(ctx, req.Email, pending); err != nil {
		return serverError(c, h.Log, "store reset code failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "reset code generated",
		"debug_code": code,
		"expires_at": pending.ExpiresAt.UTC(),
	})
}

func (h *AuthHandler) completeReset(c echo.Context, req resetReq) error {
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" || req.NewPassword == "" {
		return badRequest(c, "token and new_password are required")
	}
	if msg := checkPassword(req.NewPassword); msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	pending, err := h.Resets.Get(ctx, req.Email)
	if errors.Is(err, passreset.ErrNotFound) {
		return badRequest(c, "no reset requested for this email")
	}
	if err != nil {
		return serverError(c, h.Log, "load reset code failed", err)
	}

	switch err := pending.Check(req.Token, h.now()); {
	case errors.Is(err, passreset.ErrMismatch):
		return badRequest(c, "invalid code")
	case errors.Is(err, passreset.ErrExpired):
		if err := h.Resets.Delete(ctx, req.Email); err != nil {
			h.Log.Warn("drop expired reset code failed", zap.Error(err))
		}
		return badRequest(c, "code expired")
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return serverError(c, h.Log, "hash password failed", err)
	}
	if err := h.Users.UpdatePasswordByEmail(ctx, req.Email, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "email not found"})
		}
		return serverError(c, h.Log, "update password failed", err)
	}
	if err := h.Resets.Delete(ctx, req.Email); err != nil {
		return serverError(c, h.Log, "delete reset code failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
