package encoding

import (
	"errors"
	"strings"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	base     = int64(62)
	maxLen   = 11 // digits of the largest uint64 magnitude
)

var ErrInvalidBase62 = errors.New("encoding: invalid character in base62 string")

// Base62Encode converts a non-negative integer to a Base62 string.
// Negative values are encoded by magnitude.
func Base62Encode(id int64) string {
	if id == 0 {
		return alphabet[:1]
	}
	n := uint64(id)
	if id < 0 {
		n = -n // two's complement magnitude, exact for math.MinInt64
	}

	var chars [maxLen]byte
	k := maxLen
	for n > 0 {
		k--
		chars[k] = alphabet[n%uint64(base)]
		n /= uint64(base)
	}
	return string(chars[k:])
}

// Base62Decode converts a Base62 string back to an integer
func Base62Decode(s string) (int64, error) {
	var id int64
	for _, char := range s {
		index := strings.IndexRune(alphabet, char)
		if index == -1 {
			return 0, ErrInvalidBase62
		}
		id = id*base + int64(index)
	}
	return id, nil
}
