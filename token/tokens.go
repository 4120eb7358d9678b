// Package token holds the client-side token pair, its durable storage
// contract, and unverified JWT expiry inspection.
package token

// Tokens is the access/refresh pair issued by the backend. Both values are
// opaque bearer strings; only the access token's exp claim is ever decoded.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid reports whether both tokens are present. Stored records failing this
// check are treated as corrupt.
func (t Tokens) Valid() bool {
	return t.Access != "" && t.Refresh != ""
}
