package config

// Error types for config operations
var (
	ErrInvalidConfig     = Error{"invalid configuration"}
	ErrUnsupportedFormat = Error{"unsupported configuration format"}
)

// Error represents a configuration error
type Error struct {
	Message string
}

func (e Error) Error() string {
	return e.Message
}
