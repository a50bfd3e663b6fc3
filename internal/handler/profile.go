package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/config"
	"github.com/iliyamo/fitness-tracker/internal/middleware"
	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/repository"
	"github.com/iliyamo/fitness-tracker/internal/session"
	"github.com/iliyamo/fitness-tracker/internal/utils"
)

// ProfileHandler serves /api/me.
type ProfileHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions session.Store
	Log      *zap.Logger
}

func NewProfileHandler(cfg config.Config, u *repository.UserRepo, s session.Store, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Users: u, Sessions: s, Log: log}
}

// profileUpdateReq fields left out of the body keep their current value.
type profileUpdateReq struct {
	Name         *string `json:"name"`
	Surname      *string `json:"surname"`
	Country      *string `json:"country"`
	ProfileImage *string `json:"profile_image"`
	NewPassword  string  `json:"new_password"`
}

// Get returns the caller's profile with workout and exercise counts.
func (h *ProfileHandler) Get(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, me.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		return serverError(c, h.Log, "load profile failed", err)
	}
	stats, err := h.Users.Stats(ctx, u.ID)
	if err != nil {
		return serverError(c, h.Log, "load profile stats failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": model.Profile{User: *u, Stats: stats}})
}

// Update edits profile fields and optionally the password, then refreshes
// the session snapshot so later requests see the new values.
func (h *ProfileHandler) Update(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	// A blank new_password leaves the password unchanged.
	var hash string
	if strings.TrimSpace(req.NewPassword) != "" {
		if msg := checkPassword(req.NewPassword); msg != "" {
			return badRequest(c, msg)
		}
		var err error
		if hash, err = utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost); err != nil {
			return serverError(c, h.Log, "hash password failed", err)
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, me.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		return serverError(c, h.Log, "load profile failed", err)
	}

	patch := session.Patch{}
	if req.Name != nil {
		v := strings.TrimSpace(*req.Name)
		u.Name, patch.Name = v, &v
	}
	if req.Surname != nil {
		v := strings.TrimSpace(*req.Surname)
		u.Surname, patch.Surname = v, &v
	}
	if req.Country != nil {
		v := strings.TrimSpace(*req.Country)
		u.Country, patch.Country = v, &v
	}
	if req.ProfileImage != nil {
		v := strings.TrimSpace(*req.ProfileImage)
		u.ProfileImage, patch.ProfileImage = v, &v
	}

	if err := h.Users.UpdateProfile(ctx, u); err != nil {
		return serverError(c, h.Log, "update profile failed", err)
	}
	if hash != "" {
		if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
			return serverError(c, h.Log, "update password failed", err)
		}
	}
	if err := h.Sessions.Update(ctx, middleware.SessionToken(c), patch); err != nil && !errors.Is(err, session.ErrNotFound) {
		return serverError(c, h.Log, "refresh session failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// Delete removes the account and everything it owns, then ends the session.
func (h *ProfileHandler) Delete(c echo.Context) error {
	me, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, me.UserID); err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return serverError(c, h.Log, "delete account failed", err)
	}
	if err := h.Sessions.Delete(ctx, middleware.SessionToken(c)); err != nil {
		h.Log.Warn("delete session after account removal failed", zap.Error(err))
	}
	clearSessionCookie(c, h.Cfg)
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}
