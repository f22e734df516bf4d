package handlers

import (
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"elkishop/internal/cart"
	"elkishop/internal/metrics"
	"elkishop/internal/models"
	"elkishop/internal/orders"
)

const cartSessionCookie = "cart_session"

// cartSession returns the browsing session ID, issuing a fresh cookie when
// the request carries none. The cart lives server-side keyed by this ID.
func cartSession(c *gin.Context) string {
	if id, err := c.Cookie(cartSessionCookie); err == nil && strings.TrimSpace(id) != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(cartSessionCookie, id, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
	return id
}

type cartView struct {
	Items []cart.Line `json:"items"`
	Total float64     `json:"total"`
}

func viewOf(c *cart.Cart) cartView {
	return cartView{Items: c.Lines(), Total: c.Total()}
}

type addCartItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

/*
GET /api/cart
*/
func GetCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var view cartView
		store.With(cartSession(c), func(cc *cart.Cart) {
			view = viewOf(cc)
		})
		c.JSON(http.StatusOK, view)
	}
}

/*
POST /api/cart/items
- same product again bumps the quantity instead of adding a second line
*/
func AddCartItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price cannot be negative"})
			return
		}

		var view cartView
		store.With(cartSession(c), func(cc *cart.Cart) {
			cc.AddItem(cart.Line{
				ProductID: strings.TrimSpace(req.ProductID),
				Name:      strings.TrimSpace(req.Name),
				UnitPrice: req.Price,
				Image:     strings.TrimSpace(req.Image),
			})
			view = viewOf(cc)
		})
		c.JSON(http.StatusOK, view)
	}
}

/*
PUT /api/cart/items/:productId
- quantity below 1 removes the line
*/
func UpdateCartItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var view cartView
		store.With(cartSession(c), func(cc *cart.Cart) {
			cc.UpdateQuantity(c.Param("productId"), *req.Quantity)
			view = viewOf(cc)
		})
		c.JSON(http.StatusOK, view)
	}
}

/*
DELETE /api/cart/items/:productId
*/
func RemoveCartItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var view cartView
		store.With(cartSession(c), func(cc *cart.Cart) {
			cc.RemoveItem(c.Param("productId"))
			view = viewOf(cc)
		})
		c.JSON(http.StatusOK, view)
	}
}

/*
DELETE /api/cart
*/
func ClearCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		store.With(cartSession(c), func(cc *cart.Cart) {
			cc.Clear()
		})
		c.JSON(http.StatusOK, cartView{Items: []cart.Line{}})
	}
}

type checkoutRequest struct {
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	CustomerPhone string `json:"customerPhone" binding:"required"`
	Address       string `json:"address" binding:"required"`
}

/*
POST /api/cart/checkout
- submits the session cart as an order; the cart is cleared only after the
  order is persisted, so a failed submission can simply be retried
*/
func CheckoutCart(store *cart.Store, db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/checkout"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		sessionID := cartSession(c)

		var lines []cart.Line
		var total float64
		store.With(sessionID, func(cc *cart.Cart) {
			lines = cc.Lines()
			total = cc.Total()
		})

		if len(lines) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "cart is empty")
			return
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Name:      line.Name,
				Price:     line.UnitPrice,
				Quantity:  line.Quantity,
				Image:     line.Image,
			})
		}

		order := models.Order{
			CustomerName:   strings.TrimSpace(req.CustomerName),
			CustomerEmail:  strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
			CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
			Address:        strings.TrimSpace(req.Address),
			Items:          items,
			Total:          math.Round(total*100) / 100,
			Status:         string(orders.StatusPending),
			IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
			CreatedAt:      time.Now(),
		}

		orderID, deduplicated, err := insertOrder(c.Request.Context(), &mongoOrderStore{db: db}, order)
		if err != nil {
			// cart untouched so the customer can resubmit
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		store.Drop(sessionID)

		if deduplicated {
			metrics.OrdersDeduplicated.Inc()
			c.JSON(http.StatusOK, gin.H{"success": true, "orderId": orderID, "message": "order already created"})
			return
		}

		log.Printf("[%s] order %s created, total=%.2f", route, orderID, order.Total)
		metrics.OrdersCreated.Inc()
		c.JSON(http.StatusCreated, gin.H{"success": true, "orderId": orderID, "message": "order created"})
	}
}
