package interfaces

// Logger defines the logging contract used across the application.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
}

// DocumentStore defines the persistence operations the bot depends on.
// Documents are stored as JSON bodies keyed by a composite string ID of the
// form `<collection>/<partialId>`.
type DocumentStore interface {
	Close()
	Ping() error

	// Load reads the document with the given full ID into out. It returns
	// false when no such document exists.
	Load(id string, out any) (bool, error)
	// Store writes the document under the given full ID, replacing any
	// previous version.
	Store(id string, document any) error
	// Delete removes the document with the given full ID.
	Delete(id string) error
	// LoadCollection reads every document in a collection whose partial ID
	// begins with the given prefix. It returns raw JSON bodies keyed by
	// partial ID.
	LoadCollection(collection string, partialIDPrefix string) (map[string][]byte, error)
}
