package cart

import (
	"sync"
	"testing"
)

func TestStoreKeepsCartsPerSession(t *testing.T) {
	s := NewStore()

	s.With("session-a", func(c *Cart) {
		c.AddItem(Line{ProductID: "p1", UnitPrice: 10})
	})
	s.With("session-b", func(c *Cart) {
		c.AddItem(Line{ProductID: "p2", UnitPrice: 20})
	})

	s.With("session-a", func(c *Cart) {
		if c.Len() != 1 || c.Lines()[0].ProductID != "p1" {
			t.Fatalf("session-a cart leaked: %+v", c.Lines())
		}
	})
}

func TestStoreDrop(t *testing.T) {
	s := NewStore()
	s.With("session-a", func(c *Cart) {
		c.AddItem(Line{ProductID: "p1", UnitPrice: 10})
	})
	s.Drop("session-a")

	s.With("session-a", func(c *Cart) {
		if c.Len() != 0 {
			t.Fatalf("expected a fresh cart after Drop, got %d lines", c.Len())
		}
	})
}

func TestStoreConcurrentSessions(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.With("shared", func(c *Cart) {
				c.AddItem(Line{ProductID: "p1", UnitPrice: 1})
			})
		}()
	}
	wg.Wait()

	s.With("shared", func(c *Cart) {
		if c.Len() != 1 || c.Lines()[0].Quantity != 50 {
			t.Fatalf("expected one line with quantity 50, got %+v", c.Lines())
		}
	})
}
