// Package users defines the wire shapes of the identity and profile
// resources and the denormalized AuthUser view composed from them.
package users

import "time"

// Address is one entry of a user's address book.
type Address struct {
	ID         int64  `json:"id,omitempty"`
	Label      string `json:"label,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default,omitempty"`
}

// Identity is the authenticated account record served by GET auth/me/.
type Identity struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
}

// ProfileName is the nested name record on the profile resource.
type ProfileName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Profile is the extended user record served by GET users/{id}/.
type Profile struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	Phone     string      `json:"phone,omitempty"`
	Addresses []Address   `json:"addresses,omitempty"`
	Name      ProfileName `json:"name"`
}

// AuthUser is the denormalized session view of the signed-in user. It is
// recomputed from network responses on every hydration and never persisted.
type AuthUser struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	LastLogin *time.Time
	Staff     bool
	Superuser bool
	Phone     string
	Addresses []Address
}

// Compose builds the AuthUser view from the identity record and, when
// available, the profile record. Profile name fields override the identity's
// when non-empty; a nil profile is tolerated and yields an identity-only view.
func Compose(identity Identity, profile *Profile) AuthUser {
	user := AuthUser{
		ID:        identity.ID,
		Username:  identity.Username,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		LastLogin: identity.LastLogin,
		Staff:     identity.IsStaff,
		Superuser: identity.IsSuperuser,
	}

	if profile == nil {
		return user
	}

	if profile.Name.FirstName != "" {
		user.FirstName = profile.Name.FirstName
	}
	if profile.Name.LastName != "" {
		user.LastName = profile.Name.LastName
	}
	user.Phone = profile.Phone
	user.Addresses = profile.Addresses

	return user
}

// FullName returns the display name of the user.
func (u AuthUser) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
