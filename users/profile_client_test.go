package users_test

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
	"github.com/jharlow/go-storefront-client/internal/utils"
	"github.com/jharlow/go-storefront-client/users"
)

func newProfileClient(t *testing.T, handler http.HandlerFunc) *users.ProfileClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend, err := api.NewClient(server.URL + "/")
	require.NoError(t, err)
	client, err := users.NewProfileClient(backend)
	require.NoError(t, err)
	return client
}

func TestProfileGet(t *testing.T) {
	client := newProfileClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/7/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": 7, "phone": "+1-555-0101", "name": {"first_name": "Jane", "last_name": "Doe"}}`)
	})

	profile, err := client.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Jane", profile.Name.FirstName)
	assert.Equal(t, "+1-555-0101", profile.Phone)
}

func TestProfileUpdateSendsOnlyChangedFields(t *testing.T) {
	var method string
	var body map[string]any
	client := newProfileClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": 7, "phone": "+1-555-0199", "name": {"first_name": "Jane", "last_name": "Doe"}}`)
	})

	updated, err := client.Update(context.Background(), 7, users.ProfileUpdate{
		Phone: utils.Ptr("+1-555-0199"),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, method)
	assert.Contains(t, body, "phone")
	assert.NotContains(t, body, "name", "untouched fields stay out of the patch")
	assert.NotContains(t, body, "addresses")
	assert.Equal(t, "+1-555-0199", updated.Phone)
}

func TestProfileUpdateAddresses(t *testing.T) {
	var body map[string]any
	client := newProfileClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": 7}`)
	})

	addresses := []users.Address{
		{Street: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US", IsDefault: true},
	}
	_, err := client.Update(context.Background(), 7, users.ProfileUpdate{Addresses: &addresses})
	require.NoError(t, err)

	assert.Contains(t, body, "addresses")
	assert.NotContains(t, body, "phone")
}

func TestNewProfileClientRequiresBackend(t *testing.T) {
	_, err := users.NewProfileClient(nil)
	assert.Error(t, err)
}
