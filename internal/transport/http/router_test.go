package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sokomart/shop/internal/handlers"
	"github.com/sokomart/shop/internal/handlers/cart"
	"github.com/sokomart/shop/internal/service/token"
	"github.com/sokomart/shop/internal/testutil"
)

type routerEnv struct {
	e     *echo.Echo
	users *testutil.UserStore
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	users := testutil.NewUserStore()
	products := testutil.NewProductStore()
	tokens := token.New([]byte("test-secret"))

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:    &handlers.AuthHandler{Users: users, Tokens: tokens},
		ProductHandler: &handlers.ProductHandler{Products: products},
		UploadHandler:  &handlers.UploadHandler{},
		SearchHandler:  &handlers.SearchHandler{},
		CartHandler:    &cart.CartHandler{Users: users},
		Tokens:         tokens,
	})
	return &routerEnv{e: e, users: users}
}

func (env *routerEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("auth-token", token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func TestCartRoutesRequireToken(t *testing.T) {
	env := newRouterEnv(t)

	for _, path := range []string{"/addtocart", "/removefrom"} {
		rec := env.do(t, http.MethodPost, path, map[string]string{"ItemId": "1", "Itemid": "1"}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "path=%s without token", path)

		rec = env.do(t, http.MethodPost, path, map[string]string{"ItemId": "1", "Itemid": "1"}, "bogus-token")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "path=%s with bogus token", path)
	}
}

func TestSignupLoginAddToCartFlow(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(t, http.MethodPost, "/signup", map[string]string{
		"name":     "wanjiku",
		"email":    "wanjiku@example.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", map[string]string{
		"email":    "wanjiku@example.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.True(t, login.Success)
	require.NotEmpty(t, login.Token)

	rec = env.do(t, http.MethodPost, "/addtocart", map[string]string{"ItemId": "5"}, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool `json:"success"`
		Quantity int  `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, 1, resp.Quantity)

	user, err := env.users.FindByEmail(t.Context(), "wanjiku@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, env.users.Cart(user.ID.Hex())["5"])
}

func TestUnauthenticatedCartCallMutatesNothing(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(t, http.MethodPost, "/signup", map[string]string{
		"name":     "wanjiku",
		"email":    "wanjiku@example.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/addtocart", map[string]string{"ItemId": "5"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	user, err := env.users.FindByEmail(t.Context(), "wanjiku@example.com")
	require.NoError(t, err)
	require.Zero(t, env.users.Cart(user.ID.Hex())["5"])
}
