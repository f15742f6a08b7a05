package codec

import "errors"

var (
	ErrInvalidFrame  = errors.New("codec: invalid frame")
	ErrFrameTooLarge = errors.New("codec: frame too large")
)
