package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"elkishop/internal/models"
	"elkishop/internal/orders"
)

type fakeOrderStore struct {
	orders    map[string]models.Order
	byKey     map[string]models.Order
	insertErr error
	inserted  []models.Order

	// runs before UpdateStatusFrom checks the stored status, standing in for
	// a second operator racing the same order
	beforeUpdate func(s *fakeOrderStore)
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[string]models.Order),
		byKey:  make(map[string]models.Order),
	}
}

func (s *fakeOrderStore) put(order models.Order) primitive.ObjectID {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.orders[order.ID.Hex()] = order
	if order.IdempotencyKey != "" {
		s.byKey[order.IdempotencyKey] = order
	}
	return order.ID
}

func (s *fakeOrderStore) Insert(_ context.Context, order models.Order) (string, error) {
	if s.insertErr != nil {
		return "", s.insertErr
	}
	s.inserted = append(s.inserted, order)
	return s.put(order).Hex(), nil
}

func (s *fakeOrderStore) FindByIdempotencyKey(_ context.Context, key string) (models.Order, error) {
	order, ok := s.byKey[key]
	if !ok {
		return models.Order{}, errOrderNotFound
	}
	return order, nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	order, ok := s.orders[id.Hex()]
	if !ok {
		return models.Order{}, errOrderNotFound
	}
	return order, nil
}

func (s *fakeOrderStore) UpdateStatusFrom(_ context.Context, id primitive.ObjectID, from, to orders.Status) (models.Order, error) {
	if s.beforeUpdate != nil {
		s.beforeUpdate(s)
	}
	order, ok := s.orders[id.Hex()]
	if !ok || order.Status != string(from) {
		return models.Order{}, errOrderNotFound
	}
	order.Status = string(to)
	s.orders[id.Hex()] = order
	return order, nil
}

func newOrderStatusRouter(store orderStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PATCH("/admin/api/orders/:id", updateOrderStatusWith(store))
	return r
}

func patchStatus(r *gin.Engine, id string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("PATCH", "/admin/api/orders/"+id, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pendingOrder() models.Order {
	return models.Order{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+15550001111",
		Address:       "12 Fir Lane",
		Items:         []models.OrderItem{{ProductID: "p1", Name: "Shadow Spruce", Price: 100, Quantity: 1}},
		Total:         100,
		Status:        string(orders.StatusPending),
		CreatedAt:     time.Now(),
	}
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	store := newFakeOrderStore()
	r := newOrderStatusRouter(store)

	w := patchStatus(r, primitive.NewObjectID().Hex(), `{"status":"confirmed"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d: %s", w.Code, w.Body.String())
	}
	if len(store.orders) != 0 {
		t.Fatalf("no order should be created by a status update")
	}
}

func TestUpdateOrderStatusInvalidID(t *testing.T) {
	r := newOrderStatusRouter(newFakeOrderStore())

	if w := patchStatus(r, "not-a-hex-id", `{"status":"confirmed"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}
}

func TestUpdateOrderStatusUnknownValue(t *testing.T) {
	store := newFakeOrderStore()
	id := store.put(pendingOrder())
	r := newOrderStatusRouter(store)

	if w := patchStatus(r, id.Hex(), `{"status":"misplaced"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status value, got %d", w.Code)
	}
	if got := store.orders[id.Hex()].Status; got != string(orders.StatusPending) {
		t.Fatalf("order status changed to %q on a rejected update", got)
	}
}

func TestUpdateOrderStatusHappyPath(t *testing.T) {
	store := newFakeOrderStore()
	id := store.put(pendingOrder())
	r := newOrderStatusRouter(store)

	w := patchStatus(r, id.Hex(), `{"status":"confirmed"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := store.orders[id.Hex()].Status; got != string(orders.StatusConfirmed) {
		t.Fatalf("expected stored status confirmed, got %q", got)
	}
}

func TestUpdateOrderStatusRejectsSkippingStates(t *testing.T) {
	store := newFakeOrderStore()
	id := store.put(pendingOrder())
	r := newOrderStatusRouter(store)

	w := patchStatus(r, id.Hex(), `{"status":"delivered"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for pending -> delivered, got %d: %s", w.Code, w.Body.String())
	}
	if got := store.orders[id.Hex()].Status; got != string(orders.StatusPending) {
		t.Fatalf("order moved to %q despite the rejected transition", got)
	}
}

func TestUpdateOrderStatusConcurrentChange(t *testing.T) {
	store := newFakeOrderStore()
	id := store.put(pendingOrder())
	// another operator confirms and ships the order between this handler's
	// read and its write; committing confirmed on top would regress the order
	store.beforeUpdate = func(s *fakeOrderStore) {
		order := s.orders[id.Hex()]
		order.Status = string(orders.StatusShipped)
		s.orders[id.Hex()] = order
	}
	r := newOrderStatusRouter(store)

	w := patchStatus(r, id.Hex(), `{"status":"confirmed"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 when the status moved underneath, got %d: %s", w.Code, w.Body.String())
	}
	if got := store.orders[id.Hex()].Status; got != string(orders.StatusShipped) {
		t.Fatalf("concurrent status %q was overwritten, got %q", orders.StatusShipped, got)
	}
}

func TestInsertOrderDeduplicatesByKey(t *testing.T) {
	store := newFakeOrderStore()
	existing := pendingOrder()
	existing.IdempotencyKey = "checkout-abc"
	existingID := store.put(existing)
	store.insertErr = errDuplicateOrder

	retry := pendingOrder()
	retry.IdempotencyKey = "checkout-abc"

	id, deduplicated, err := insertOrder(context.Background(), store, retry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deduplicated {
		t.Fatalf("expected the retry to be answered with the stored order")
	}
	if id != existingID.Hex() {
		t.Fatalf("expected existing order id %s, got %s", existingID.Hex(), id)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("a deduplicated retry must not insert a second order")
	}
}

func TestInsertOrderDuplicateWithoutKey(t *testing.T) {
	store := newFakeOrderStore()
	store.insertErr = errDuplicateOrder

	_, deduplicated, err := insertOrder(context.Background(), store, pendingOrder())
	if err == nil {
		t.Fatalf("expected the duplicate error to surface when no key was sent")
	}
	if deduplicated {
		t.Fatalf("an order without an idempotency key cannot be deduplicated")
	}
}

func TestInsertOrderHappyPath(t *testing.T) {
	store := newFakeOrderStore()

	id, deduplicated, err := insertOrder(context.Background(), store, pendingOrder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deduplicated {
		t.Fatalf("a first submission must not report deduplication")
	}
	if _, ok := store.orders[id]; !ok {
		t.Fatalf("inserted order %s not found in store", id)
	}
}
