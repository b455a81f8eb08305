package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Workspace is the default workspace scope served when a request
	// does not name one explicitly.
	Workspace string `mapstructure:"workspace" default:""`
}
