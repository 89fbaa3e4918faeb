package proxy

import "errors"

// ErrEmptyPool is returned by Select when there is nothing to choose from.
var ErrEmptyPool = errors.New("proxy pool is empty")
