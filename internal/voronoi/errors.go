package voronoi

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// The three error kinds the core surfaces (§7). Callers branch on
// these with errors.Is; the wrapped message carries the detail.
var (
	ErrInvalidConfig    = errors.New("invalid config")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrResourceExhausted = errors.New("resource exhausted")
)

// invalidConfig wraps ErrInvalidConfig with a formatted reason. When a
// request fails for more than one independent reason (SetImage with
// both bad dimensions and a short pixel buffer) the reasons go through
// combineConfigErrors instead, which joins them with multierr.Append
// before a single Wrap, so errors.Is(err, ErrInvalidConfig) still holds
// and every reason is visible in err.Error().
func invalidConfig(format string, args ...interface{}) error {
	return errors.Wrap(ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func resourceExhausted(format string, args ...interface{}) error {
	return errors.Wrap(ErrResourceExhausted, fmt.Sprintf(format, args...))
}

// combineConfigErrors merges zero or more validation failures into a
// single ErrInvalidConfig-wrapped error, or nil if none were given.
func combineConfigErrors(errs ...error) error {
	var merged error
	for _, e := range errs {
		if e != nil {
			merged = multierr.Append(merged, e)
		}
	}
	if merged == nil {
		return nil
	}
	return errors.Wrap(ErrInvalidConfig, merged.Error())
}
