package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
	InStock     bool               `bson:"inStock" json:"inStock"`
	CategoryID  primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
