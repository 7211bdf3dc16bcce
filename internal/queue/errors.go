package queue

import "errors"

var ErrEntryNotFound = errors.New("pending entry not found")
