package users

import (
	"context"
	"net/url"
	"sync"

	"github.com/pkg/errors"
)

const availabilityPath = "auth/register/available/"

// AvailabilityGetter is the slice of the API client needed for availability
// checks.
type AvailabilityGetter interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// AvailabilityChecker answers whether a username is free to register.
// Each Check cancels the previous in-flight request, so a fast typist never
// sees results arrive out of order relative to their latest input.
type AvailabilityChecker struct {
	client AvailabilityGetter

	lock   sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

// NewAvailabilityChecker initializes an AvailabilityChecker.
func NewAvailabilityChecker(client AvailabilityGetter) (*AvailabilityChecker, error) {
	if client == nil {
		return nil, errors.New("[NewAvailabilityChecker] client is required")
	}
	return &AvailabilityChecker{client: client}, nil
}

// Check reports whether username is available. A new call cancels any check
// still in flight; the superseded call returns the context cancellation
// error.
func (ac *AvailabilityChecker) Check(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)

	ac.lock.Lock()
	if ac.cancel != nil {
		ac.cancel()
	}
	ac.cancel = cancel
	ac.gen++
	myGen := ac.gen
	ac.lock.Unlock()

	defer func() {
		cancel()
		ac.lock.Lock()
		// A newer Check may already own ac.cancel.
		if ac.gen == myGen {
			ac.cancel = nil
		}
		ac.lock.Unlock()
	}()

	var resp struct {
		Available bool `json:"available"`
	}
	query := url.Values{"username": []string{username}}
	if err := ac.client.Get(ctx, availabilityPath, query, &resp); err != nil {
		return false, errors.Wrap(err, "[AvailabilityChecker.Check] availability request")
	}
	return resp.Available, nil
}
