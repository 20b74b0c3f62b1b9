// Package cart keeps the shopping cart, partitioned by store and persisted
// under a single key in the device's persistent storage tier.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/primepost/internal/client/models"
	"github.com/dmitrijs2005/primepost/internal/client/storage"
)

const Key = "primepost-cart"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrExceedsStock    = errors.New("quantity exceeds available stock")
	ErrItemNotFound    = errors.New("item is not in the cart")
	ErrWrongStore      = errors.New("product belongs to another store")
)

// persisted mirrors the {"state": ..., "version": n} envelope older web
// clients wrote, so their carts load unchanged.
type persisted struct {
	State struct {
		Items map[string][]models.CartItem `json:"items"`
	} `json:"state"`
	Version int `json:"version"`
}

// Store is safe for concurrent use. A mutation becomes visible only after it
// has been written to storage.
type Store struct {
	mu         sync.Mutex
	items      map[string][]models.CartItem
	persistent storage.Store
}

// Load reads the saved cart. A missing or unreadable document yields an
// empty cart; only storage failures are returned.
func Load(ctx context.Context, persistent storage.Store) (*Store, error) {
	s := &Store{items: make(map[string][]models.CartItem), persistent: persistent}

	raw, err := persistent.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if raw == nil {
		return s, nil
	}

	var doc persisted
	if err := json.Unmarshal(raw, &doc); err != nil || doc.State.Items == nil {
		return s, nil
	}
	for storeID, items := range doc.State.Items {
		if len(items) > 0 {
			s.items[storeID] = items
		}
	}
	return s, nil
}

func (s *Store) AddItem(ctx context.Context, storeID string, product models.Product, quantity int64) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if product.StoreID != "" && product.StoreID != storeID {
		return ErrWrongStore
	}
	if product.OutOfStock || product.StockQty <= 0 {
		return ErrOutOfStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cloneItems()
	lines := next[storeID]

	found := false
	for i := range lines {
		if lines[i].Product.ID == product.ID {
			lines[i].Quantity += quantity
			if lines[i].Quantity > product.StockQty {
				return ErrExceedsStock
			}
			found = true
			break
		}
	}
	if !found {
		if quantity > product.StockQty {
			return ErrExceedsStock
		}
		lines = append(lines, models.CartItem{Product: product, Quantity: quantity})
	}
	next[storeID] = lines

	return s.commit(ctx, next)
}

func (s *Store) RemoveItem(ctx context.Context, storeID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cloneItems()
	lines := next[storeID]
	kept := lines[:0]
	for _, l := range lines {
		if l.Product.ID != productID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(lines) {
		return ErrItemNotFound
	}
	if len(kept) == 0 {
		delete(next, storeID)
	} else {
		next[storeID] = kept
	}

	return s.commit(ctx, next)
}

func (s *Store) UpdateQuantity(ctx context.Context, storeID, productID string, quantity int64) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cloneItems()
	lines := next[storeID]
	for i := range lines {
		if lines[i].Product.ID != productID {
			continue
		}
		if quantity > lines[i].Product.StockQty {
			return ErrExceedsStock
		}
		lines[i].Quantity = quantity
		return s.commit(ctx, next)
	}
	return ErrItemNotFound
}

// ClearCart drops one store's partition, e.g. after its order was placed.
func (s *Store) ClearCart(ctx context.Context, storeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[storeID]; !ok {
		return nil
	}
	next := s.cloneItems()
	delete(next, storeID)
	return s.commit(ctx, next)
}

// ClearAll empties every partition and deletes the saved document. Memory is
// cleared even when the delete fails, because logout must not leave a cart
// visible to the next user.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string][]models.CartItem)
	if err := s.persistent.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Store) StoreCart(storeID string) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CartItem, len(s.items[storeID]))
	copy(out, s.items[storeID])
	return out
}

func (s *Store) StoreTotal(storeID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, l := range s.items[storeID] {
		total += LineTotal(l)
	}
	return total
}

func (s *Store) StoreIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OrderItems turns a store's partition into order lines.
func (s *Store) OrderItems(storeID string) []models.OrderItem {
	lines := s.StoreCart(storeID)
	out := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.OrderItem{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	return out
}

func (s *Store) cloneItems() map[string][]models.CartItem {
	next := make(map[string][]models.CartItem, len(s.items))
	for k, v := range s.items {
		lines := make([]models.CartItem, len(v))
		copy(lines, v)
		next[k] = lines
	}
	return next
}

func (s *Store) commit(ctx context.Context, next map[string][]models.CartItem) error {
	var doc persisted
	doc.State.Items = next

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.persistent.Set(ctx, Key, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.items = next
	return nil
}
