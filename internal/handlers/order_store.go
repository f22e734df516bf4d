package handlers

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elkishop/internal/models"
	"elkishop/internal/orders"
)

var (
	errOrderNotFound  = errors.New("order not found")
	errDuplicateOrder = errors.New("duplicate order")
)

// orderStore narrows the order collection operations so the checkout and
// status-update flows can be exercised without a live database.
type orderStore interface {
	Insert(ctx context.Context, order models.Order) (string, error)
	FindByIdempotencyKey(ctx context.Context, key string) (models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to orders.Status) (models.Order, error)
}

type mongoOrderStore struct {
	db *mongo.Database
}

func (s *mongoOrderStore) Insert(ctx context.Context, order models.Order) (string, error) {
	res, err := s.db.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", errDuplicateOrder
		}
		return "", err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id.Hex(), nil
}

func (s *mongoOrderStore) FindByIdempotencyKey(ctx context.Context, key string) (models.Order, error) {
	var order models.Order
	err := s.db.Collection("orders").FindOne(ctx, bson.M{"idempotencyKey": key}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, errOrderNotFound
	}
	return order, err
}

func (s *mongoOrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := s.db.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, errOrderNotFound
	}
	return order, err
}

// UpdateStatusFrom writes the new status only while the stored status still
// matches the one the caller observed; a no-match surfaces as errOrderNotFound
// and the caller decides whether the order vanished or moved concurrently.
func (s *mongoOrderStore) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to orders.Status) (models.Order, error) {
	var updated models.Order
	err := s.db.Collection("orders").
		FindOneAndUpdate(
			ctx,
			bson.M{"_id": id, "status": string(from)},
			bson.M{"$set": bson.M{"status": string(to)}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).
		Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, errOrderNotFound
	}
	return updated, err
}
