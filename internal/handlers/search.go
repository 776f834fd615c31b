package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/sokomart/shop/internal/service/search"
	"github.com/sokomart/shop/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search not configured")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	ctx := c.Request().Context()

	total, products, err := search.Search(ctx, h.ES, h.Index, q, from, size)
	if err != nil {
		c.Logger().Errorf("search error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
