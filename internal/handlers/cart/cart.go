package cart

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sokomart/shop/internal/jwtmiddleware"
	"github.com/sokomart/shop/internal/mykafka"
	"github.com/sokomart/shop/internal/repo"
)

type CartHandler struct {
	Users    repo.UserStore
	Producer *mykafka.Producer
}

func (h *CartHandler) publish(c echo.Context, userID string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicCartEvents, userID, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ItemID string `json:"ItemId" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "ItemId is required"})
	}

	ctx := c.Request().Context()

	user, err := h.Users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		c.Logger().Errorf("cart fetch error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	if user.Cart == nil {
		user.Cart = make(map[string]int)
	}
	user.Cart[req.ItemID]++

	if err := h.Users.UpdateCart(ctx, userID, user.Cart); err != nil {
		c.Logger().Errorf("cart update error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	h.publish(c, userID, map[string]any{
		"type":     "cart_item_added",
		"userID":   userID,
		"itemID":   req.ItemID,
		"quantity": user.Cart[req.ItemID],
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "quantity": user.Cart[req.ItemID]})
}

// RemoveFrom decrements a cart slot, floored at zero. The authenticated id is
// used for both the read and the write; the body userId the old storefront
// still sends is accepted and ignored.
func (h *CartHandler) RemoveFrom(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		UserID string `json:"userId"`
		ItemID string `json:"Itemid" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Itemid is required"})
	}

	ctx := c.Request().Context()

	user, err := h.Users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		c.Logger().Errorf("cart fetch error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	if user.Cart == nil {
		user.Cart = make(map[string]int)
	}
	if user.Cart[req.ItemID] > 0 {
		user.Cart[req.ItemID]--
	}

	if err := h.Users.UpdateCart(ctx, userID, user.Cart); err != nil {
		c.Logger().Errorf("cart update error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	h.publish(c, userID, map[string]any{
		"type":     "cart_item_removed",
		"userID":   userID,
		"itemID":   req.ItemID,
		"quantity": user.Cart[req.ItemID],
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "quantity": user.Cart[req.ItemID]})
}
