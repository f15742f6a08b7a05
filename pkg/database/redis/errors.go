package redis

import "errors"

var (
	ErrPingFailed       = errors.New("redis: ping failed")
	ErrConnectionFailed = errors.New("redis: connection failed")
	ErrEmptyName        = errors.New("redis: empty queue name")
)
