package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sokomart/shop/internal/models"
	"github.com/sokomart/shop/internal/mongodb"
)

type ProductRepo struct {
	coll *mongo.Collection
}

// NewProductRepo builds a mongo-backed product store over the products collection.
func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{coll: db.Collection(mongodb.ProductsCollection)}
}

func (r *ProductRepo) Insert(ctx context.Context, product *models.Product) error {
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// DeleteByID removes the product with the given numeric id. Matching no
// document is not an error; the delete endpoint does not distinguish.
func (r *ProductRepo) DeleteByID(ctx context.Context, id int) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) All(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

// MaxID returns the highest assigned product id, 0 when the catalog is empty.
func (r *ProductRepo) MaxID(ctx context.Context) (int, error) {
	var product models.Product
	err := r.coll.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("max product id: %w", err)
	}
	return product.ID, nil
}

// Recent returns the n most recently assigned products in ascending id order.
func (r *ProductRepo) Recent(ctx context.Context, n int) ([]models.Product, error) {
	items, err := r.find(ctx, options.Find().
		SetSort(bson.D{{Key: "id", Value: -1}}).
		SetLimit(int64(n)))
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

func (r *ProductRepo) First(ctx context.Context, n int) ([]models.Product, error) {
	return r.find(ctx, options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetLimit(int64(n)))
}

func (r *ProductRepo) find(ctx context.Context, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]models.Product, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return items, nil
}
