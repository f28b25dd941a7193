package storage

import "errors"

// Keys used for the persisted session.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrUnavailable is returned when the backing storage cannot be read or written.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a string-keyed persistent key-value store.
//
// SetMany writes all values in a single step so that readers never observe
// a partial update. Deleting keys that do not exist is not an error.
type Store interface {
	Get(key string) (string, bool, error)
	SetMany(values map[string]string) error
	Delete(keys ...string) error
}
