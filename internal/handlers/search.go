package handlers

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elkishop/internal/models"
)

const defaultSearchLimit = 5

// substringFilter builds a case-insensitive substring match over name and
// description. Plain substring matching only; no relevance ranking.
func substringFilter(query string) bson.M {
	escaped := regexp.QuoteMeta(query)
	pattern := bson.M{"$regex": escaped, "$options": "i"}
	return bson.M{
		"$or": []bson.M{
			{"name": pattern},
			{"description": pattern},
		},
	}
}

/*
GET /api/search?q=&limit=
- substring search over products and categories
- response: {products, categories, total, hasMore}
*/
func Search(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/search"
		defer handlePanic(c, route)

		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			c.JSON(http.StatusOK, gin.H{"products": []models.Product{}, "categories": []models.Category{}})
			return
		}

		limit := int64(defaultSearchLimit)
		if limitStr := strings.TrimSpace(c.Query("limit")); limitStr != "" {
			parsed, err := strconv.ParseInt(limitStr, 10, 64)
			if err != nil || parsed < 1 {
				respondWithError(c, http.StatusBadRequest, route, "invalid limit")
				return
			}
			limit = parsed
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := substringFilter(query)
		findOptions := options.Find().
			SetLimit(limit).
			SetSort(bson.D{{Key: "name", Value: 1}})

		products := make([]models.Product, 0)
		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		categories := make([]models.Category, 0)
		cursor, err = db.Collection("categories").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if err := cursor.All(ctx, &categories); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		totalProducts, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		totalCategories, err := db.Collection("categories").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		total := totalProducts + totalCategories
		log.Printf("[%s] q=%q matched %d results", route, query, total)

		c.JSON(http.StatusOK, gin.H{
			"products":   products,
			"categories": categories,
			"total":      total,
			"hasMore":    total > limit,
		})
	}
}
