package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sokomart/shop/internal/hash"
	"github.com/sokomart/shop/internal/models"
	"github.com/sokomart/shop/internal/service/token"
	"github.com/sokomart/shop/internal/testutil"
)

func newAuthHandler() (*AuthHandler, *testutil.UserStore, *token.Service) {
	users := testutil.NewUserStore()
	tokens := token.New([]byte("test-secret"))
	return &AuthHandler{Users: users, Tokens: tokens}, users, tokens
}

func TestSignup(t *testing.T) {
	h, users, tokens := newAuthHandler()
	e := testutil.NewEcho()

	payload := map[string]string{
		"name":     "wanjiku",
		"email":    "wanjiku@example.com",
		"password": "password",
	}
	rec, c := testutil.DoJSON(t, e, http.MethodPost, "/signup", payload, nil)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)

	user, err := users.FindByEmail(c.Request().Context(), "wanjiku@example.com")
	require.NoError(t, err)
	require.Len(t, user.Cart, models.CartSlots)
	for i := 0; i < models.CartSlots; i++ {
		qty, ok := user.Cart[strconv.Itoa(i)]
		require.True(t, ok, "missing slot %d", i)
		require.Zero(t, qty)
	}
	require.NotEqual(t, "password", user.PasswordHash)

	id, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID.Hex(), id)
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, users, _ := newAuthHandler()
	e := testutil.NewEcho()

	payload := map[string]string{
		"name":     "wanjiku",
		"email":    "wanjiku@example.com",
		"password": "password",
	}
	rec, c := testutil.DoJSON(t, e, http.MethodPost, "/signup", payload, nil)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, users.Len())

	rec2, c2 := testutil.DoJSON(t, e, http.MethodPost, "/signup", payload, nil)
	require.NoError(t, h.Signup(c2))
	require.Equal(t, http.StatusBadRequest, rec2.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotEmpty(t, resp.Error)
	require.Equal(t, 1, users.Len(), "duplicate signup must not create a record")
}

func TestSignupMissingFields(t *testing.T) {
	h, users, _ := newAuthHandler()
	e := testutil.NewEcho()

	rec, c := testutil.DoJSON(t, e, http.MethodPost, "/signup", map[string]string{"email": "x@y.z"}, nil)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, users.Len())
}

func TestLogin(t *testing.T) {
	h, users, tokens := newAuthHandler()
	e := testutil.NewEcho()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	user := models.User{
		Name:         "wanjiku",
		Email:        "wanjiku@example.com",
		PasswordHash: pwHash,
		Cart:         models.NewCart(),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, users.Create(t.Context(), &user))

	rec, c := testutil.DoJSON(t, e, http.MethodPost, "/login", map[string]string{
		"email":    "wanjiku@example.com",
		"password": "password",
	}, nil)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	id, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID.Hex(), id)
}

func TestLoginWrongPassword(t *testing.T) {
	h, users, _ := newAuthHandler()
	e := testutil.NewEcho()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	require.NoError(t, users.Create(t.Context(), &models.User{
		Email:        "wanjiku@example.com",
		PasswordHash: pwHash,
	}))

	rec, c := testutil.DoJSON(t, e, http.MethodPost, "/login", map[string]string{
		"email":    "wanjiku@example.com",
		"password": "wrong",
	}, nil)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotContains(t, rec.Body.String(), "token")
}

func TestLoginUnknownEmail(t *testing.T) {
	h, _, _ := newAuthHandler()
	e := testutil.NewEcho()

	rec, c := testutil.DoJSON(t, e, http.MethodPost, "/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password",
	}, nil)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotContains(t, rec.Body.String(), "token")
}
