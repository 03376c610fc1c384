package storage

import "errors"

var (
	ErrPathEscapesBase = errors.New("path escapes base directory")
	ErrEmptyContent    = errors.New("refusing to save empty document")
)
