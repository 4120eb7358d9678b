// Package cart manages the shopping cart through the backend's
// {add, update, remove} patch semantics, with optimistic client-side merging
// of added items.
package cart

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jharlow/go-storefront-client/api"
)

const cartsPath = "carts/"

// ErrCheckoutUnavailable is returned by Checkout: order placement is not
// implemented in this client.
var ErrCheckoutUnavailable = errors.New("checkout is not available yet")

// Item is one cart line.
type Item struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Cart is the server-side cart record.
type Cart struct {
	ID    string `json:"id"`
	Items []Item `json:"items"`
}

// Patch is the cart mutation envelope: items to add, lines to update to a new
// quantity, and product IDs to remove.
type Patch struct {
	Add    []Item  `json:"add,omitempty"`
	Update []Item  `json:"update,omitempty"`
	Remove []int64 `json:"remove,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return len(p.Add) == 0 && len(p.Update) == 0 && len(p.Remove) == 0
}

// Client manages carts.
type Client struct {
	backend *api.Client
}

// NewClient initializes a cart Client.
func NewClient(backend *api.Client) (*Client, error) {
	if backend == nil {
		return nil, errors.New("[cart.NewClient] backend client is required")
	}
	return &Client{backend: backend}, nil
}

// Create makes a new empty cart.
func (c *Client) Create(ctx context.Context) (*Cart, error) {
	var created Cart
	if err := c.backend.Post(ctx, cartsPath, nil, &created); err != nil {
		return nil, errors.Wrap(err, "[Client.Create] cart create")
	}
	return &created, nil
}

// Get fetches a cart by ID.
func (c *Client) Get(ctx context.Context, id string) (*Cart, error) {
	var cart Cart
	if err := c.backend.Get(ctx, cartsPath+id+"/", nil, &cart); err != nil {
		return nil, errors.Wrap(err, "[Client.Get] cart fetch")
	}
	return &cart, nil
}

// Apply submits a patch and returns the reconciled cart from the server.
func (c *Client) Apply(ctx context.Context, id string, patch Patch) (*Cart, error) {
	if patch.Empty() {
		return c.Get(ctx, id)
	}
	var updated Cart
	if err := c.backend.Patch(ctx, cartsPath+id+"/", patch, &updated); err != nil {
		return nil, errors.Wrap(err, "[Client.Apply] cart patch")
	}
	return &updated, nil
}

// Checkout is a stub: order placement is out of scope for this client.
func (c *Client) Checkout(ctx context.Context, id string) error {
	return errors.Wrap(ErrCheckoutUnavailable, fmt.Sprintf("[Client.Checkout] cart %s", id))
}

// MergeAdds folds incoming additions into a patch against the existing cart
// lines. Products already in the cart become quantity updates with the
// amounts summed; genuinely new products stay additions. Incoming duplicates
// are collapsed first.
func MergeAdds(existing []Item, incoming []Item) Patch {
	current := make(map[int64]int, len(existing))
	for _, item := range existing {
		current[item.ProductID] += item.Quantity
	}

	var order []int64
	added := make(map[int64]int)
	for _, item := range incoming {
		if item.Quantity <= 0 {
			continue
		}
		if _, seen := added[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		added[item.ProductID] += item.Quantity
	}

	var patch Patch
	for _, productID := range order {
		quantity := added[productID]
		if have, ok := current[productID]; ok {
			patch.Update = append(patch.Update, Item{ProductID: productID, Quantity: have + quantity})
			continue
		}
		patch.Add = append(patch.Add, Item{ProductID: productID, Quantity: quantity})
	}
	return patch
}
