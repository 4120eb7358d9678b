package token

// Store persists the token pair across restarts. Implementations never
// surface corruption: a record that cannot be decoded, or that fails
// Tokens.Valid, is deleted and reported as absent. Read returning (nil, nil)
// means "no stored session".
type Store interface {
	Read() (*Tokens, error)
	Write(Tokens) error
	Clear() error
}
