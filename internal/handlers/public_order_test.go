package handlers

import (
	"testing"

	"elkishop/internal/orders"
)

func TestBuildOrderComputesTotalFromSubmittedLines(t *testing.T) {
	req := createOrderRequest{
		CustomerName:  "Customer",
		CustomerEmail: "customer@example.com",
		CustomerPhone: "+375291234567",
		Address:       "Minsk, Horror Lane 13",
		Items: []createOrderItemRequest{
			{ProductID: "p1", Name: "Dark Forest Tree", Price: 150.00, Quantity: 1},
			{ProductID: "p2", Name: "Ghost Forest Tree", Price: 200.00, Quantity: 2},
		},
	}

	order, err := buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}

	if order.Total != 550.00 {
		t.Fatalf("expected total 550.00, got %v", order.Total)
	}
	if order.Status != string(orders.StatusPending) {
		t.Fatalf("expected status pending, got %s", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
}

func TestBuildOrderPreservesItemOrder(t *testing.T) {
	req := createOrderRequest{
		CustomerName:  "Customer",
		CustomerEmail: "customer@example.com",
		CustomerPhone: "1",
		Address:       "a",
		Items: []createOrderItemRequest{
			{ProductID: "p3", Price: 1, Quantity: 1},
			{ProductID: "p1", Price: 1, Quantity: 1},
			{ProductID: "p2", Price: 1, Quantity: 1},
		},
	}

	order, err := buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}

	for i, want := range []string{"p3", "p1", "p2"} {
		if order.Items[i].ProductID != want {
			t.Fatalf("item %d: expected %s, got %s", i, want, order.Items[i].ProductID)
		}
	}
}

func TestBuildOrderRoundsTotalOnce(t *testing.T) {
	req := createOrderRequest{
		CustomerName:  "Customer",
		CustomerEmail: "customer@example.com",
		CustomerPhone: "1",
		Address:       "a",
		Items: []createOrderItemRequest{
			{ProductID: "p1", Price: 0.10, Quantity: 3},
		},
	}

	order, err := buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}
	if order.Total != 0.30 {
		t.Fatalf("expected total 0.30, got %v", order.Total)
	}
}

func TestBuildOrderRejectsEmptyItems(t *testing.T) {
	req := createOrderRequest{
		CustomerName:  "Customer",
		CustomerEmail: "customer@example.com",
		CustomerPhone: "1",
		Address:       "a",
	}

	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for empty items")
	}
}

func TestBuildOrderRejectsBadQuantities(t *testing.T) {
	for _, quantity := range []int{0, -2} {
		req := createOrderRequest{
			CustomerName:  "Customer",
			CustomerEmail: "customer@example.com",
			CustomerPhone: "1",
			Address:       "a",
			Items: []createOrderItemRequest{
				{ProductID: "p1", Price: 10, Quantity: quantity},
			},
		}
		if _, err := buildOrderFromRequest(req); err == nil {
			t.Fatalf("expected error for quantity %d", quantity)
		}
	}
}

func TestBuildOrderRejectsNegativePrice(t *testing.T) {
	req := createOrderRequest{
		CustomerName:  "Customer",
		CustomerEmail: "customer@example.com",
		CustomerPhone: "1",
		Address:       "a",
		Items: []createOrderItemRequest{
			{ProductID: "p1", Price: -5, Quantity: 1},
		},
	}
	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestBuildOrderNormalizesCustomerFields(t *testing.T) {
	req := createOrderRequest{
		CustomerName:  "  Customer  ",
		CustomerEmail: "Customer@Example.COM",
		CustomerPhone: " 1 ",
		Address:       " a ",
		Items: []createOrderItemRequest{
			{ProductID: " p1 ", Name: " Tree ", Price: 10, Quantity: 1},
		},
	}

	order, err := buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}
	if order.CustomerName != "Customer" || order.CustomerEmail != "customer@example.com" {
		t.Fatalf("expected trimmed customer fields, got %q %q", order.CustomerName, order.CustomerEmail)
	}
	if order.Items[0].ProductID != "p1" || order.Items[0].Name != "Tree" {
		t.Fatalf("expected trimmed item fields, got %+v", order.Items[0])
	}
}
