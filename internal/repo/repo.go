package repo

import (
	"context"
	"errors"

	"github.com/sokomart/shop/internal/models"
)

// ErrNotFound is returned when a filter matches no document.
var ErrNotFound = errors.New("record not found")

// UserStore defines persistence operations over user documents.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateCart(ctx context.Context, id string, cart map[string]int) error
}

// ProductStore defines persistence operations over product documents.
type ProductStore interface {
	Insert(ctx context.Context, product *models.Product) error
	DeleteByID(ctx context.Context, id int) error
	All(ctx context.Context) ([]models.Product, error)
	MaxID(ctx context.Context) (int, error)
	Recent(ctx context.Context, n int) ([]models.Product, error)
	First(ctx context.Context, n int) ([]models.Product, error)
}
