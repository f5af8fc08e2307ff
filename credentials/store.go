// Package credentials persists the single bearer token the SDK holds between
// runs. The store is intentionally dumb: one opaque string, no validation,
// and no failure surface. A broken storage medium behaves exactly like an
// empty one so session logic never has to care.
package credentials

// Store holds at most one bearer token.
type Store interface {
	// Get returns the persisted token, or false if none is held.
	Get() (string, bool)
	// Set replaces the persisted token. Best effort.
	Set(token string)
	// Clear removes any persisted token. Best effort.
	Clear()
}
