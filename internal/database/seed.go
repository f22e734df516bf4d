package database

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"elkishop/internal/models"
)

// SeedAdminUser creates the back-office operator account when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured and no user with that email exists yet.
func SeedAdminUser(db *mongo.Database, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Role:         "admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := db.Collection("users").InsertOne(ctx, admin); err != nil {
		return err
	}

	log.Println("SeedAdminUser: admin user created:", email)
	return nil
}
