package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sokomart/shop/internal/models"
	"github.com/sokomart/shop/internal/repo"
)

type echoValidator struct {
	v *validator.Validate
}

func (ev *echoValidator) Validate(i interface{}) error {
	if err := ev.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// NewEcho returns an echo instance configured the way the server configures
// it for request validation.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &echoValidator{v: validator.New()}
	return e
}

// DoJSON builds a JSON request against e and returns the recorder and context
// for driving a handler directly.
func DoJSON(t *testing.T, e *echo.Echo, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, c
}

// UserStore is an in-memory repo.UserStore.
type UserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*models.User)}
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	cp.Cart = cloneCart(user.Cart)
	s.users[user.ID.Hex()] = &cp
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	cp.Cart = cloneCart(u.Cart)
	return &cp, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			cp.Cart = cloneCart(u.Cart)
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *UserStore) UpdateCart(_ context.Context, id string, cart map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Cart = cloneCart(cart)
	return nil
}

// Len reports the number of stored users.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Cart returns the persisted cart of a user, nil when absent.
func (s *UserStore) Cart(id string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return cloneCart(u.Cart)
}

func cloneCart(cart map[string]int) map[string]int {
	if cart == nil {
		return nil
	}
	cp := make(map[string]int, len(cart))
	for k, v := range cart {
		cp[k] = v
	}
	return cp
}

// ProductStore is an in-memory repo.ProductStore with the same ordering
// semantics as the mongo-backed one.
type ProductStore struct {
	mu    sync.Mutex
	items []models.Product
}

func NewProductStore(items ...models.Product) *ProductStore {
	s := &ProductStore{}
	s.items = append(s.items, items...)
	return s
}

func (s *ProductStore) Insert(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, *product)
	return nil
}

func (s *ProductStore) DeleteByID(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.items {
		if p.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *ProductStore) All(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(), nil
}

func (s *ProductStore) MaxID(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, p := range s.items {
		if p.ID > max {
			max = p.ID
		}
	}
	return max, nil
}

func (s *ProductStore) Recent(_ context.Context, n int) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.sorted()
	if len(items) > n {
		items = items[len(items)-n:]
	}
	return items, nil
}

func (s *ProductStore) First(_ context.Context, n int) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.sorted()
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

func (s *ProductStore) sorted() []models.Product {
	items := make([]models.Product, len(s.items))
	copy(items, s.items)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
