package vision

import (
	"errors"

	"github.com/prohair-dev/trichoscan/internal/vision/norwood"
)

var (
	ErrInferenceTimeout = errors.New("vision inference timeout")

	// Aliases of the norwood sentinels so handlers only need this package to
	// classify provider failures.
	ErrInvalidResponse     = norwood.ErrInvalidResponse
	ErrProviderUnavailable = norwood.ErrProviderUnavailable
)
