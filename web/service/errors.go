package service

import (
	"errors"

	"github.com/edusite/edusite/database"
)

var (
	// ErrNotFound is the persistence sentinel, re-exported so controllers need
	// not import the database package.
	ErrNotFound = database.ErrNotFound

	ErrUnknownEmail    = errors.New("no user with this email")
	ErrWrongPassword   = errors.New("wrong password")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrUnauthenticated = errors.New("login required")
)
