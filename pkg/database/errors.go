package database

import "errors"

// ErrNotReady is returned by Ready when the server cannot be reached.
var ErrNotReady = errors.New("database not ready")
