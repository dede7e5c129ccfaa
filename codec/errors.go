package codec

import "errors"

var (
	// ErrCodecNotFound is returned when a scheme is not found in the registry
	ErrCodecNotFound = errors.New("codec not found")

	// ErrInvalidParameter is returned when options or grid dimensions are invalid
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidQuality is returned when the quality parameter is outside [0, 1]
	ErrInvalidQuality = errors.New("invalid quality (must be 0-1)")

	// ErrUnsupportedNormalization is returned when a scheme cannot apply the
	// requested normalization mode, or the variant is already normalized
	ErrUnsupportedNormalization = errors.New("unsupported normalization")
)
