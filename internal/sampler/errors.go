package sampler

import "errors"

// ErrTooManySites is returned when more sites are requested than there
// are pixels to place them on.
var ErrTooManySites = errors.New("sampler: more sites requested than available pixels")
