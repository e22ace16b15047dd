package domain

import "errors"

var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrSessionNotFound   = errors.New("session not found")
)
