package manifest

const (
	// Default maximum logical line length (1MB)
	defaultMaxLength = 1024 * 1024
)

// config holds decoder configuration.
type config struct {
	maxLength int
}

// Option configures a Decoder.
type Option func(*config)

// MaxLogicalLineLength sets the maximum size in bytes of one logical line,
// continuation lines included. Longer lines fail with ErrTooLarge.
//
// Default: 1MB (1048576 bytes)
func MaxLogicalLineLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}
