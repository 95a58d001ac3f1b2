package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/homeplate/homeplate-app/models"
)

var ErrItemNotInCart = errors.New("item not in cart")

// CartStore keeps per-customer carts in Redis. Carts are ephemeral client
// state, not part of the shared order data, so they live here with a TTL
// instead of in the relational store.
type CartStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{Client: client, TTL: ttl}
}

func (s *CartStore) key(customerID uint) string {
	return "cart:" + strconv.FormatUint(uint64(customerID), 10)
}

// Get returns the customer's cart, or an empty cart when none is stored.
func (s *CartStore) Get(ctx context.Context, customerID uint) (*models.Cart, error) {
	raw, err := s.Client.Get(ctx, s.key(customerID)).Result()
	if err == redis.Nil {
		return &models.Cart{CustomerID: customerID}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartStore) save(ctx context.Context, cart *models.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.key(cart.CustomerID), payload, s.TTL).Err()
}

// AddItem puts an item in the cart. A cart holds items from one cook only:
// adding from a different cook replaces the whole cart rather than merging.
func (s *CartStore) AddItem(ctx context.Context, customerID, cookID uint, cookName string, item models.CartItem) (*models.Cart, error) {
	cart, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if cart.CookID != cookID {
		cart = &models.Cart{
			CustomerID: customerID,
			CookID:     cookID,
			CookName:   cookName,
		}
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].MenuItemID == item.MenuItemID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets an item's quantity; zero or less removes the item.
func (s *CartStore) UpdateQuantity(ctx context.Context, customerID, menuItemID uint, quantity int) (*models.Cart, error) {
	cart, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].MenuItemID == menuItemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrItemNotInCart
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	if len(cart.Items) == 0 {
		if err := s.Clear(ctx, customerID); err != nil {
			return nil, err
		}
		return &models.Cart{CustomerID: customerID}, nil
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops one item from the cart.
func (s *CartStore) RemoveItem(ctx context.Context, customerID, menuItemID uint) (*models.Cart, error) {
	return s.UpdateQuantity(ctx, customerID, menuItemID, 0)
}

// Clear deletes the stored cart.
func (s *CartStore) Clear(ctx context.Context, customerID uint) error {
	return s.Client.Del(ctx, s.key(customerID)).Err()
}
