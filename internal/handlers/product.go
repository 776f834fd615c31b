package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sokomart/shop/internal/cache"
	"github.com/sokomart/shop/internal/es"
	"github.com/sokomart/shop/internal/models"
	"github.com/sokomart/shop/internal/mykafka"
	"github.com/sokomart/shop/internal/repo"
)

const (
	viewAll     = "products:all"
	viewNew     = "products:new"
	viewPopular = "products:popular"
	viewTTL     = 5 * time.Minute

	viewSize = 4
)

type ProductHandler struct {
	Products repo.ProductStore
	Producer *mykafka.Producer
	Indexer  *es.ProductIndexer
	Cache    *cache.Client
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *ProductHandler) AddProduct(c echo.Context) error {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Price       string `json:"price" validate:"required"`
		Category    string `json:"category" validate:"required"`
		Image       string `json:"image" validate:"required"`
		Available   *bool  `json:"available"`
		Description string `json:"desc"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name, price, category and image are required"})
	}

	ctx := c.Request().Context()

	// max existing id + 1, or 1 on an empty catalog. Concurrent creates can
	// still collide; max+1 is the catalog's id contract.
	maxID, err := h.Products.MaxID(ctx)
	if err != nil {
		c.Logger().Errorf("product id lookup error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	prod := models.Product{
		ID:          maxID + 1,
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Available:   req.Available,
		Description: req.Description,
	}
	if err := h.Products.Insert(ctx, &prod); err != nil {
		c.Logger().Errorf("product insert error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	if err := h.Indexer.IndexProduct(ctx, prod); err != nil {
		c.Logger().Errorf("es index error: %v", err)
	}
	h.Cache.Delete(ctx, viewAll, viewNew, viewPopular)

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": prod})
}

// DeleteProduct removes by numeric id. Matching nothing is still a success;
// the storefront never distinguished.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	var req struct {
		ID int `json:"id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}

	ctx := c.Request().Context()

	if err := h.Products.DeleteByID(ctx, req.ID); err != nil {
		c.Logger().Errorf("product delete error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	if err := h.Indexer.DeleteProduct(ctx, req.ID); err != nil {
		c.Logger().Errorf("es delete error: %v", err)
	}
	h.Cache.Delete(ctx, viewAll, viewNew, viewPopular)

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": req.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "product deleted"})
}

func (h *ProductHandler) AllProducts(c echo.Context) error {
	return h.view(c, viewAll, func(ctx context.Context) ([]models.Product, error) {
		return h.Products.All(ctx)
	})
}

// NewArrivals returns the most recent four products by id.
func (h *ProductHandler) NewArrivals(c echo.Context) error {
	return h.view(c, viewNew, func(ctx context.Context) ([]models.Product, error) {
		return h.Products.Recent(ctx, viewSize)
	})
}

// Popular returns the first four products in store order.
func (h *ProductHandler) Popular(c echo.Context) error {
	return h.view(c, viewPopular, func(ctx context.Context) ([]models.Product, error) {
		return h.Products.First(ctx, viewSize)
	})
}

func (h *ProductHandler) view(c echo.Context, key string, fetch func(context.Context) ([]models.Product, error)) error {
	ctx := c.Request().Context()

	if data := h.Cache.Get(ctx, key); data != nil {
		var items []models.Product
		if err := json.Unmarshal(data, &items); err == nil {
			return c.JSON(http.StatusOK, items)
		}
	}

	items, err := fetch(ctx)
	if err != nil {
		c.Logger().Errorf("catalog view error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	if data, err := json.Marshal(items); err == nil {
		h.Cache.Set(ctx, key, data, viewTTL)
	}

	return c.JSON(http.StatusOK, items)
}
