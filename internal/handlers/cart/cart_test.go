package cart

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sokomart/shop/internal/models"
	"github.com/sokomart/shop/internal/testutil"
)

func seedUser(t *testing.T, users *testutil.UserStore) *models.User {
	t.Helper()
	user := models.User{
		Name:      "wanjiku",
		Email:     "wanjiku@example.com",
		Cart:      models.NewCart(),
		CreatedAt: time.Now(),
	}
	require.NoError(t, users.Create(t.Context(), &user))
	return &user
}

func doCart(t *testing.T, e *echo.Echo, h *CartHandler, path string, body any, userID string) (int, map[string]any) {
	t.Helper()
	rec, c := testutil.DoJSON(t, e, http.MethodPost, path, body, nil)
	c.Set("userID", userID)

	var err error
	switch path {
	case "/addtocart":
		err = h.AddToCart(c)
	case "/removefrom":
		err = h.RemoveFrom(c)
	default:
		t.Fatalf("unknown path %s", path)
	}
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestAddToCartIncrements(t *testing.T) {
	users := testutil.NewUserStore()
	user := seedUser(t, users)
	h := &CartHandler{Users: users}
	e := testutil.NewEcho()

	code, resp := doCart(t, e, h, "/addtocart", map[string]string{"ItemId": "12"}, user.ID.Hex())
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(1), resp["quantity"])

	code, resp = doCart(t, e, h, "/addtocart", map[string]string{"ItemId": "12"}, user.ID.Hex())
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(2), resp["quantity"])

	require.Equal(t, 2, users.Cart(user.ID.Hex())["12"])
}

func TestAddToCartFreshItemOutsideSeededSlots(t *testing.T) {
	users := testutil.NewUserStore()
	user := seedUser(t, users)
	h := &CartHandler{Users: users}
	e := testutil.NewEcho()

	code, resp := doCart(t, e, h, "/addtocart", map[string]string{"ItemId": "431"}, user.ID.Hex())
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(1), resp["quantity"])
	require.Equal(t, 1, users.Cart(user.ID.Hex())["431"])
}

func TestRemoveFromDecrementsAndFloorsAtZero(t *testing.T) {
	users := testutil.NewUserStore()
	user := seedUser(t, users)
	h := &CartHandler{Users: users}
	e := testutil.NewEcho()

	doCart(t, e, h, "/addtocart", map[string]string{"ItemId": "7"}, user.ID.Hex())
	doCart(t, e, h, "/addtocart", map[string]string{"ItemId": "7"}, user.ID.Hex())

	code, resp := doCart(t, e, h, "/removefrom", map[string]string{"Itemid": "7"}, user.ID.Hex())
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(1), resp["quantity"])

	doCart(t, e, h, "/removefrom", map[string]string{"Itemid": "7"}, user.ID.Hex())
	code, resp = doCart(t, e, h, "/removefrom", map[string]string{"Itemid": "7"}, user.ID.Hex())
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(0), resp["quantity"], "removal must not drive the slot negative")
	require.Zero(t, users.Cart(user.ID.Hex())["7"])
}

func TestRemoveFromIgnoresBodyUserID(t *testing.T) {
	users := testutil.NewUserStore()
	alice := seedUser(t, users)
	bob := models.User{Email: "bob@example.com", Cart: models.NewCart()}
	require.NoError(t, users.Create(t.Context(), &bob))

	h := &CartHandler{Users: users}
	e := testutil.NewEcho()

	doCart(t, e, h, "/addtocart", map[string]string{"ItemId": "3"}, alice.ID.Hex())
	doCart(t, e, h, "/addtocart", map[string]string{"ItemId": "3"}, bob.ID.Hex())

	// Body claims to be bob; the token context says alice. Only alice's
	// cart may change.
	code, _ := doCart(t, e, h, "/removefrom",
		map[string]string{"userId": bob.ID.Hex(), "Itemid": "3"}, alice.ID.Hex())
	require.Equal(t, http.StatusOK, code)

	require.Zero(t, users.Cart(alice.ID.Hex())["3"])
	require.Equal(t, 1, users.Cart(bob.ID.Hex())["3"])
}
