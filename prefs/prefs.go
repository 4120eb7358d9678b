// Package prefs persists small user preferences, currently the language
// choice, in the same durable key/value storage as the token record.
package prefs

import (
	"github.com/pkg/errors"

	"github.com/jharlow/go-storefront-client/internal/keyval"
)

const languageKey = "prefs.language"

// DefaultLanguage is used when no preference is stored.
const DefaultLanguage = "en"

// Prefs reads and writes user preferences.
type Prefs struct {
	kv *keyval.Store
}

// New creates a Prefs over the given key/value store.
func New(kv *keyval.Store) (*Prefs, error) {
	if kv == nil {
		return nil, errors.New("[prefs.New] kv store is required")
	}
	return &Prefs{kv: kv}, nil
}

// Language returns the stored language preference, or DefaultLanguage when
// none is stored or the record is unreadable.
func (p *Prefs) Language() string {
	data, found, err := p.kv.Get(languageKey)
	if err != nil || !found || len(data) == 0 {
		return DefaultLanguage
	}
	return string(data)
}

// SetLanguage stores the language preference.
func (p *Prefs) SetLanguage(lang string) error {
	if lang == "" {
		return errors.New("[Prefs.SetLanguage] language is required")
	}
	if err := p.kv.Set(languageKey, []byte(lang)); err != nil {
		return errors.Wrap(err, "[Prefs.SetLanguage] set")
	}
	return nil
}
