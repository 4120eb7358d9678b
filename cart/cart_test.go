package cart_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/go-storefront-client/api"
	"github.com/jharlow/go-storefront-client/cart"
)

func TestMergeAdds(t *testing.T) {
	existing := []cart.Item{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	tests := []struct {
		name     string
		incoming []cart.Item
		want     cart.Patch
	}{
		{
			name:     "new product becomes an add",
			incoming: []cart.Item{{ProductID: 3, Quantity: 1}},
			want:     cart.Patch{Add: []cart.Item{{ProductID: 3, Quantity: 1}}},
		},
		{
			name:     "existing product becomes an update with summed quantity",
			incoming: []cart.Item{{ProductID: 1, Quantity: 3}},
			want:     cart.Patch{Update: []cart.Item{{ProductID: 1, Quantity: 5}}},
		},
		{
			name: "mixed additions split between add and update",
			incoming: []cart.Item{
				{ProductID: 2, Quantity: 2},
				{ProductID: 4, Quantity: 1},
			},
			want: cart.Patch{
				Add:    []cart.Item{{ProductID: 4, Quantity: 1}},
				Update: []cart.Item{{ProductID: 2, Quantity: 3}},
			},
		},
		{
			name: "incoming duplicates collapse first",
			incoming: []cart.Item{
				{ProductID: 3, Quantity: 1},
				{ProductID: 3, Quantity: 2},
			},
			want: cart.Patch{Add: []cart.Item{{ProductID: 3, Quantity: 3}}},
		},
		{
			name:     "non-positive quantities dropped",
			incoming: []cart.Item{{ProductID: 3, Quantity: 0}, {ProductID: 4, Quantity: -1}},
			want:     cart.Patch{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := cart.MergeAdds(existing, tc.incoming)
			assert.Equal(t, tc.want, got)
		})
	}
}

func newCartClient(t *testing.T, handler http.HandlerFunc) *cart.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend, err := api.NewClient(server.URL + "/")
	require.NoError(t, err)
	client, err := cart.NewClient(backend)
	require.NoError(t, err)
	return client
}

func TestApplySendsPatchEnvelope(t *testing.T) {
	var method, path string
	var body map[string]any
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": "cart-1", "items": [{"product_id": 1, "quantity": 5}]}`)
	})

	updated, err := client.Apply(context.Background(), "cart-1", cart.Patch{
		Update: []cart.Item{{ProductID: 1, Quantity: 5}},
		Remove: []int64{2},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/carts/cart-1/", path)
	assert.Contains(t, body, "update")
	assert.Contains(t, body, "remove")
	assert.NotContains(t, body, "add", "empty patch groups are omitted")
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 5, updated.Items[0].Quantity)
}

func TestApplyEmptyPatchJustFetches(t *testing.T) {
	var method string
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": "cart-1", "items": []}`)
	})

	_, err := client.Apply(context.Background(), "cart-1", cart.Patch{})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, method)
}

func TestCreateCart(t *testing.T) {
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/carts/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": "cart-9", "items": []}`)
	})

	created, err := client.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cart-9", created.ID)
}

func TestCheckoutIsStubbed(t *testing.T) {
	client := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("checkout must not reach the backend")
	})

	err := client.Checkout(context.Background(), "cart-1")
	assert.ErrorIs(t, err, cart.ErrCheckoutUnavailable)
}
