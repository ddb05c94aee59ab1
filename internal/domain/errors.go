package domain

import "errors"

// ErrNotFound reports that a lookup by name, key or id matched nothing in
// the destination. Callers treat it as "absent", not as a transport fault.
var ErrNotFound = errors.New("not found")
