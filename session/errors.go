package session

import "github.com/pkg/errors"

// User-facing errors raised by user-initiated operations. Each carries a
// single human-readable message the UI can display verbatim. Credential
// errors are deliberately distinct from protocol errors so a backend contract
// break is never reported as a wrong password.
var (
	ErrInvalidCredentials  = errors.New("the username or password you entered is incorrect")
	ErrRateLimited         = errors.New("too many attempts, please wait a moment and try again")
	ErrServiceUnavailable  = errors.New("something went wrong, please try again later")
	ErrProtocol            = errors.New("the server returned an unexpected response")
	ErrRegistrationInvalid = errors.New("some registration details were rejected, please review them and try again")
	ErrAutoLoginFailed     = errors.New("your account was created but automatic sign-in failed, please log in manually")
	ErrNotAuthenticated    = errors.New("you are not signed in")
)
