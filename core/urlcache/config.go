package urlcache

// Resolution modes.
const (
	// ModeProxy derives stable URLs from a template without network calls.
	ModeProxy = "proxy"
	// ModeSigned issues time-limited signed URLs through the storage provider.
	ModeSigned = "signed"
)

// Config holds configuration for the URL resolver.
type Config struct {
	// Mode selects the resolution strategy (proxy or signed).
	Mode string `mapstructure:"mode" default:"signed"`
	// ProxyBaseURL is the URL template prefix for proxy mode,
	// e.g. "https://cdn.example.com/media".
	ProxyBaseURL string `mapstructure:"proxy_base_url" default:""`
	// SignedTTLSeconds is the expiry requested for signed URLs.
	SignedTTLSeconds int `mapstructure:"signed_ttl_seconds" default:"3600"`
	// FreshnessSeconds is how long a signed batch is served from cache.
	// Kept well below the signed expiry so cached URLs are stale-but-valid
	// rather than expired.
	FreshnessSeconds int `mapstructure:"freshness_seconds" default:"300"`
}

// IsValidMode checks if the configured resolution mode is valid.
func (c Config) IsValidMode() bool {
	switch c.Mode {
	case ModeProxy, ModeSigned:
		return true
	default:
		return false
	}
}
