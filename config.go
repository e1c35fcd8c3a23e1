package thanosql

// Config defines the configuration for the client.
type Config struct {
	// Endpoint is the URL of the ThanoSQL engine.
	Endpoint string `json:"endpoint"`
	// APIToken is sent as a Bearer token with every request.
	APIToken string `json:"api_token"`
	// APIVersion is the engine API version. Empty means "v1".
	APIVersion string `json:"api_version"`
}
