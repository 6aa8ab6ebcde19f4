package service

import "errors"

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrInvalidSide  = errors.New("side must be white or black")
)
