package handlers

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"elkishop/internal/metrics"
	"elkishop/internal/models"
	"elkishop/internal/orders"
)

// IdempotencyKeyHeader carries the client-generated checkout key. A retried
// submission with the same key answers with the already-created order instead
// of inserting a duplicate.
const IdempotencyKeyHeader = "Idempotency-Key"

/* =========================
   REQUEST DTOs
========================= */

type createOrderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity" binding:"required"`
	Image     string  `json:"image"`
}

type createOrderRequest struct {
	CustomerName  string                   `json:"customerName" binding:"required"`
	CustomerEmail string                   `json:"customerEmail" binding:"required,email"`
	CustomerPhone string                   `json:"customerPhone" binding:"required"`
	Address       string                   `json:"address" binding:"required"`
	Items         []createOrderItemRequest `json:"items" binding:"required"`
}

/* =========================
   BUILD ORDER
========================= */

// buildOrderFromRequest turns a checkout submission into a pending order. The
// total is computed here from the submitted lines; the catalog is not
// consulted again, so the stored prices are the snapshots the customer saw.
func buildOrderFromRequest(req createOrderRequest) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, errors.New("at least one item is required")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	total := 0.0

	for _, item := range req.Items {
		productID := strings.TrimSpace(item.ProductID)
		if productID == "" {
			return models.Order{}, errors.New("productId is required")
		}
		if item.Quantity <= 0 {
			return models.Order{}, errors.New("quantity must be greater than zero")
		}
		if item.Price < 0 {
			return models.Order{}, errors.New("price cannot be negative")
		}

		items = append(items, models.OrderItem{
			ProductID: productID,
			Name:      strings.TrimSpace(item.Name),
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     strings.TrimSpace(item.Image),
		})
		total += item.Price * float64(item.Quantity)
	}

	order := models.Order{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Address:       strings.TrimSpace(req.Address),
		Items:         items,
		Total:         math.Round(total*100) / 100,
		Status:        string(orders.StatusPending),
		CreatedAt:     time.Now(),
	}

	return order, nil
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		order, err := buildOrderFromRequest(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		order.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))

		orderID, deduplicated, err := insertOrder(c.Request.Context(), &mongoOrderStore{db: db}, order)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if deduplicated {
			log.Printf("[%s] duplicate submission answered with existing order %s", route, orderID)
			metrics.OrdersDeduplicated.Inc()
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"orderId": orderID,
				"message": "order already created",
			})
			return
		}

		log.Printf("[%s] order %s created, total=%.2f", route, orderID, order.Total)
		metrics.OrdersCreated.Inc()
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"orderId": orderID,
			"message": "order created",
		})
	}
}

// insertOrder persists the order. When the idempotency key collides with an
// existing document the stored order is returned instead of an error.
func insertOrder(ctx context.Context, store orderStore, order models.Order) (string, bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	id, err := store.Insert(opCtx, order)
	if err == nil {
		return id, false, nil
	}

	if order.IdempotencyKey != "" && errors.Is(err, errDuplicateOrder) {
		existing, findErr := store.FindByIdempotencyKey(opCtx, order.IdempotencyKey)
		if findErr != nil {
			return "", false, findErr
		}
		return existing.ID.Hex(), true, nil
	}

	return "", false, err
}
