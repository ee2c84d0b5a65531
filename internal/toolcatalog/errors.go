package toolcatalog

import "errors"

// ErrEmptyToolName is returned when registering a schema without a name.
var ErrEmptyToolName = errors.New("tool name must not be empty")
