package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is the snapshot of a cart line at checkout time. Name, price and
// image are copied from the cart, not re-fetched from the catalog.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
}

// Order is the persisted checkout record. Total is fixed at creation; status
// is the only field an operator mutates afterwards. Orders are never deleted.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerName   string             `bson:"customerName" json:"customerName"`
	CustomerEmail  string             `bson:"customerEmail" json:"customerEmail"`
	CustomerPhone  string             `bson:"customerPhone" json:"customerPhone"`
	Address        string             `bson:"address" json:"address"`
	Items          []OrderItem        `bson:"items" json:"items"`
	Total          float64            `bson:"total" json:"total"`
	Status         string             `bson:"status" json:"status"`
	IdempotencyKey string             `bson:"idempotencyKey,omitempty" json:"-"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
