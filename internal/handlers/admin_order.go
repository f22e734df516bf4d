package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elkishop/internal/metrics"
	"elkishop/internal/models"
	"elkishop/internal/orders"
)

type orderStatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

/*
GET /admin/api/orders
- newest first
*/
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("orders").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		allOrders := make([]models.Order, 0)
		if err := cursor.All(ctx, &allOrders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d orders", route, len(allOrders))
		c.JSON(http.StatusOK, allOrders)
	}
}

/*
PATCH /admin/api/orders/:id
- moves the order along its lifecycle; illegal jumps are rejected with 409
*/
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return updateOrderStatusWith(&mongoOrderStore{db: db})
}

func updateOrderStatusWith(store orderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req orderStatusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		target, err := orders.ParseStatus(req.Status)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		current, err := store.FindByID(ctx, orderID)
		if errors.Is(err, errOrderNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		next, err := orders.Transition(orders.Status(current.Status), target)
		if err != nil {
			respondWithError(c, http.StatusConflict, route, err.Error())
			return
		}

		// The write matches only while the status is still the one validated
		// above, so two concurrent operator updates cannot commit a
		// transition the lifecycle forbids.
		updated, err := store.UpdateStatusFrom(ctx, orderID, orders.Status(current.Status), next)
		if errors.Is(err, errOrderNotFound) {
			if _, findErr := store.FindByID(ctx, orderID); errors.Is(findErr, errOrderNotFound) {
				respondWithError(c, http.StatusNotFound, route, "order not found")
				return
			}
			respondWithError(c, http.StatusConflict, route, "order status changed, retry")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s: %s -> %s", route, orderID.Hex(), current.Status, next)
		metrics.StatusTransitions.WithLabelValues(string(next)).Inc()
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   updated,
		})
	}
}
