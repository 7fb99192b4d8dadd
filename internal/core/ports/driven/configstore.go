package driven

// ConfigStore holds the settings file as flat dot-notation keys
// ("history.limit" is the limit key of the [history] table).
//
// Typed getters return the zero value for a missing key or a value of
// another type; callers that must tell the two apart use Get.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set stores a value. File-backed stores persist before returning.
	Set(key string, value any) error

	// Unset removes a key so that its default applies again.
	// Removing a missing key is not an error.
	Unset(key string) error

	// Path locates the backing file, or a placeholder for stores
	// without one.
	Path() string
}
