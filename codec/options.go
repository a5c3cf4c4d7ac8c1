package codec

// EncoderOption configures an Encoder.
type EncoderOption func(*EncoderOptions)

// EncoderOptions holds Encoder settings.
type EncoderOptions struct {
	// Compression is the frame wrapped around the tar stream.
	// Default: None.
	Compression Compression

	// Level selects the compression effort. Ignored for None.
	// Default: LevelDefault.
	Level Level
}

// WithCompression selects the compression frame.
func WithCompression(c Compression) EncoderOption {
	return func(o *EncoderOptions) {
		o.Compression = c
	}
}

// WithLevel selects the compression effort.
func WithLevel(l Level) EncoderOption {
	return func(o *EncoderOptions) {
		o.Level = l
	}
}
