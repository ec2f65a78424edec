package sessions

// Store is durable string key/value storage for the session.
// Only the Manager writes to it.
type Store interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)

	// SetMany writes several keys as one update
	SetMany(values map[string]string) error

	// Replace discards the current contents and writes values as one
	// update. It never reads what was stored before.
	Replace(values map[string]string) error

	// Clear removes every key
	Clear() error
}
