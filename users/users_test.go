package users_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jharlow/go-storefront-client/internal/utils"
	"github.com/jharlow/go-storefront-client/users"
)

func TestComposeIdentityOnly(t *testing.T) {
	lastLogin := utils.Ptr(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	identity := users.Identity{
		ID:          7,
		Username:    "janedoe",
		Email:       "jane@example.com",
		FirstName:   "Jane",
		LastName:    "Doe",
		LastLogin:   lastLogin,
		IsStaff:     true,
		IsSuperuser: false,
	}

	user := users.Compose(identity, nil)

	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "janedoe", user.Username)
	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)
	assert.Equal(t, lastLogin, user.LastLogin)
	assert.True(t, user.Staff)
	assert.False(t, user.Superuser)
	assert.Empty(t, user.Phone)
	assert.Empty(t, user.Addresses)
}

func TestComposeProfileNameOverridesIdentity(t *testing.T) {
	identity := users.Identity{ID: 7, Username: "janedoe", FirstName: "J", LastName: "D"}
	profile := &users.Profile{
		ID:    7,
		Phone: "+1-555-0101",
		Name:  users.ProfileName{FirstName: "Jane", LastName: "Doe"},
		Addresses: []users.Address{
			{Street: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US", IsDefault: true},
		},
	}

	user := users.Compose(identity, profile)

	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)
	assert.Equal(t, "+1-555-0101", user.Phone)
	assert.Len(t, user.Addresses, 1)
}

func TestComposeEmptyProfileNameKeepsIdentityName(t *testing.T) {
	identity := users.Identity{ID: 7, FirstName: "Jane", LastName: "Doe"}
	profile := &users.Profile{ID: 7}

	user := users.Compose(identity, profile)

	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", users.AuthUser{FirstName: "Jane", LastName: "Doe"}.FullName())
	assert.Equal(t, "Jane", users.AuthUser{FirstName: "Jane"}.FullName())
	assert.Equal(t, "Doe", users.AuthUser{LastName: "Doe"}.FullName())
	assert.Equal(t, "", users.AuthUser{}.FullName())
}
