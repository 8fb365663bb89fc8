package repository

import "github.com/pkg/errors"

var (
	ErrInvalidInput = errors.New("invalid input")
)
