package httpserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sokomart/shop/internal/handlers"
	"github.com/sokomart/shop/internal/handlers/cart"
	"github.com/sokomart/shop/internal/jwtmiddleware"
	"github.com/sokomart/shop/internal/service/token"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	UploadHandler  *handlers.UploadHandler
	SearchHandler  *handlers.SearchHandler
	CartHandler    *cart.CartHandler
	Tokens         *token.Service
}

// CustomValidator wraps validator for echo.
type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Register wires the storefront routes. Paths match the wire contract the
// storefront already depends on.
func Register(e *echo.Echo, d *Deps) {
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.POST("/upload", d.UploadHandler.Upload)
	e.POST("/signup", d.AuthHandler.Signup)
	e.POST("/login", d.AuthHandler.Login)

	e.POST("/addproduct", d.ProductHandler.AddProduct)
	e.POST("/delete", d.ProductHandler.DeleteProduct)
	e.GET("/allproducts", d.ProductHandler.AllProducts)
	e.GET("/newarrivals", d.ProductHandler.NewArrivals)
	e.GET("/popularinnairobi", d.ProductHandler.Popular)
	e.GET("/search", d.SearchHandler.Search)

	authed := e.Group("", jwtmiddleware.FetchUser(d.Tokens))
	authed.POST("/addtocart", d.CartHandler.AddToCart)
	authed.POST("/removefrom", d.CartHandler.RemoveFrom)
}
