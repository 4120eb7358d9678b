package users

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// ProfileAPI is the slice of the API client needed for profile management.
type ProfileAPI interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Patch(ctx context.Context, path string, body, out any) error
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// untouched on the server.
type ProfileUpdate struct {
	Phone     *string      `json:"phone,omitempty"`
	Name      *ProfileName `json:"name,omitempty"`
	Addresses *[]Address   `json:"addresses,omitempty"`
}

// ProfileClient reads and edits the signed-in user's profile and addresses.
type ProfileClient struct {
	backend ProfileAPI
}

// NewProfileClient initializes a ProfileClient.
func NewProfileClient(backend ProfileAPI) (*ProfileClient, error) {
	if backend == nil {
		return nil, errors.New("[NewProfileClient] backend client is required")
	}
	return &ProfileClient{backend: backend}, nil
}

// Get fetches a profile by user ID.
func (pc *ProfileClient) Get(ctx context.Context, id int64) (*Profile, error) {
	var profile Profile
	if err := pc.backend.Get(ctx, fmt.Sprintf("users/%d/", id), nil, &profile); err != nil {
		return nil, errors.Wrap(err, "[ProfileClient.Get] profile fetch")
	}
	return &profile, nil
}

// Update patches the profile and returns the server's updated record. The
// session manager's RefreshUser should run afterwards so the in-memory
// AuthUser picks up the change.
func (pc *ProfileClient) Update(ctx context.Context, id int64, update ProfileUpdate) (*Profile, error) {
	var updated Profile
	if err := pc.backend.Patch(ctx, fmt.Sprintf("users/%d/", id), update, &updated); err != nil {
		return nil, errors.Wrap(err, "[ProfileClient.Update] profile patch")
	}
	return &updated, nil
}
