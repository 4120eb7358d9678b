package prefs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/go-storefront-client/internal/keyval"
	"github.com/jharlow/go-storefront-client/prefs"
)

func newPrefs(t *testing.T) *prefs.Prefs {
	t.Helper()

	kv, err := keyval.New(t.TempDir())
	require.NoError(t, err)
	p, err := prefs.New(kv)
	require.NoError(t, err)
	return p
}

func TestLanguageDefaultsWhenUnset(t *testing.T) {
	p := newPrefs(t)
	assert.Equal(t, prefs.DefaultLanguage, p.Language())
}

func TestSetLanguagePersists(t *testing.T) {
	p := newPrefs(t)

	require.NoError(t, p.SetLanguage("sv"))
	assert.Equal(t, "sv", p.Language())
}

func TestSetLanguageRequiresValue(t *testing.T) {
	p := newPrefs(t)
	assert.Error(t, p.SetLanguage(""))
}
