// Package filestore is the durable token.Store implementation, backed by a
// single record in a file-based key/value store.
package filestore

import (
	"encoding/json"

	"github.com/jharlow/go-storefront-client/internal/keyval"
	"github.com/jharlow/go-storefront-client/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const tokensKey = "auth.tokens"

var _ token.Store = (*FileStore)(nil)

// FileStore persists the token pair as one JSON blob under a fixed key.
type FileStore struct {
	kv     *keyval.Store
	logger zerolog.Logger
}

// Option defines a function type to modify the FileStore instance.
type Option func(*FileStore)

// WithLogger sets the logger used when self-healing corrupt records.
func WithLogger(logger zerolog.Logger) Option {
	return func(fs *FileStore) {
		fs.logger = logger
	}
}

// New creates a FileStore over the given key/value store.
func New(kv *keyval.Store, options ...Option) (*FileStore, error) {
	if kv == nil {
		return nil, errors.New("[filestore.New] kv store is required")
	}

	fs := &FileStore{
		kv:     kv,
		logger: zerolog.Nop(),
	}

	for _, opt := range options {
		opt(fs)
	}

	return fs, nil
}

// Read returns the stored token pair, or (nil, nil) when none is stored.
// Records that cannot be decoded, or that are missing either token, are
// deleted and reported as absent. Read never surfaces corruption as an error.
func (fs *FileStore) Read() (*token.Tokens, error) {
	data, found, err := fs.kv.Get(tokensKey)
	if err != nil {
		fs.logger.Warn().Err(err).Msg("token store read failed, treating as empty")
		return nil, nil
	}
	if !found {
		return nil, nil
	}

	var tokens token.Tokens
	if err := json.Unmarshal(data, &tokens); err != nil || !tokens.Valid() {
		fs.logger.Warn().Msg("stored tokens corrupt, deleting")
		fs.selfHeal()
		return nil, nil
	}

	return &tokens, nil
}

// Write persists the token pair, replacing any previous record.
func (fs *FileStore) Write(tokens token.Tokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return errors.Wrap(err, "[FileStore.Write] encode")
	}
	if err := fs.kv.Set(tokensKey, data); err != nil {
		return errors.Wrap(err, "[FileStore.Write] set")
	}
	return nil
}

// Clear removes the stored record. Clearing an empty store is not an error.
func (fs *FileStore) Clear() error {
	if err := fs.kv.Delete(tokensKey); err != nil {
		return errors.Wrap(err, "[FileStore.Clear] delete")
	}
	return nil
}

func (fs *FileStore) selfHeal() {
	if err := fs.kv.Delete(tokensKey); err != nil {
		fs.logger.Warn().Err(err).Msg("failed deleting corrupt token record")
	}
}
