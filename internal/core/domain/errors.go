package domain

import "errors"

var (
	ErrPollNotFound      = errors.New("poll not found")
	ErrInvalidPoll       = errors.New("invalid poll: topic and at least one answer are required")
	ErrInvalidTransition = errors.New("invalid draft transition")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
