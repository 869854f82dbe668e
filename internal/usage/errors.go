package usage

import "errors"

// ErrLimitReached indicates the client exceeded the free limit.
var ErrLimitReached = errors.New("limit reached")
