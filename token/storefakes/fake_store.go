package storefakes

import (
	"sync"

	"github.com/jharlow/go-storefront-client/token"
)

var _ token.Store = (*FakeStore)(nil)

// FakeStore is an in-memory token.Store for tests. Any of the error fields
// can be set to force a failure on the corresponding call.
type FakeStore struct {
	lock   sync.Mutex
	tokens *token.Tokens

	ReadErr  error
	WriteErr error
	ClearErr error

	WriteCount int
	ClearCount int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Read() (*token.Tokens, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.ReadErr != nil {
		return nil, fs.ReadErr
	}
	if fs.tokens == nil {
		return nil, nil
	}
	copied := *fs.tokens
	return &copied, nil
}

func (fs *FakeStore) Write(tokens token.Tokens) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.WriteErr != nil {
		return fs.WriteErr
	}
	fs.WriteCount++
	fs.tokens = &tokens
	return nil
}

func (fs *FakeStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.ClearErr != nil {
		return fs.ClearErr
	}
	fs.ClearCount++
	fs.tokens = nil
	return nil
}

// Stored returns a copy of the current record, for assertions.
func (fs *FakeStore) Stored() *token.Tokens {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.tokens == nil {
		return nil
	}
	copied := *fs.tokens
	return &copied
}
