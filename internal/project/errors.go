package project

import "errors"

// Sentinels carry only the trailing phrase; call sites prefix the item, as in
// "change 'add-login' not found".
var (
	ErrNotInitialized = errors.New("no openspec directory found (run 'openspec init' first)")
	ErrChangeNotFound = errors.New("not found")
	ErrSpecNotFound   = errors.New("not found")
	ErrItemNotFound   = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrArchiveExists  = errors.New("already exists")
	ErrAmbiguousItem  = errors.New("is ambiguous")
	ErrInvalidName    = errors.New("invalid name")
)
