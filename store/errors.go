package store

import "errors"

var (
	ErrDuplicateRowid      = errors.New("store: duplicate rowid")
	ErrDuplicatePrimaryKey = errors.New("store: duplicate primary key")
	ErrRowNotFound         = errors.New("store: row not found")
	ErrInvalidValue        = errors.New("store: invalid value")
)
