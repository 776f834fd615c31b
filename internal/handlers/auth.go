package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sokomart/shop/internal/hash"
	"github.com/sokomart/shop/internal/models"
	"github.com/sokomart/shop/internal/mykafka"
	"github.com/sokomart/shop/internal/repo"
	"github.com/sokomart/shop/internal/service/token"
)

type AuthHandler struct {
	Users    repo.UserStore
	Tokens   *token.Service
	Producer *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicUserEvents, fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name, email and password are required"})
	}

	ctx := c.Request().Context()

	// Friendly pre-check; the unique index on email is what actually
	// guarantees no duplicate lands between check and insert.
	if _, err := h.Users.FindByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "email already exists"})
	} else if !errors.Is(err, repo.ErrNotFound) {
		c.Logger().Errorf("signup lookup error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
		Cart:         models.NewCart(),
		CreatedAt:    time.Now(),
	}
	if err := h.Users.Create(ctx, &user); err != nil {
		c.Logger().Errorf("signup create error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	signed, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		c.Logger().Errorf("signup token error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	h.publish(c, map[string]any{
		"type":   "user_registered",
		"userID": user.ID.Hex(),
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "token": signed})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "email and password are required"})
	}

	ctx := c.Request().Context()

	user, err := h.Users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repo.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials email"})
	}
	if err != nil {
		c.Logger().Errorf("login lookup error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials password"})
	}

	signed, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		c.Logger().Errorf("login token error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	h.publish(c, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID.Hex(),
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "token": signed})
}
