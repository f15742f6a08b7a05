package codec

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	// headerSize is the number of bytes of the big-endian length header of each frame.
	headerSize = 8

	// MaxFrameSize bounds a single decoded frame (64MB).
	MaxFrameSize = 64 << 20
)

// WriteFrame writes p as a length-prefixed block.
func WriteFrame(w io.Writer, p []byte) error {
	var hdr [headerSize]byte
	binary.BigEndian.PutUint64(hdr[:], uint64(len(p)))
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "codec: write frame header")
	}
	if _, err := w.Write(p); err != nil {
		return errors.Wrap(err, "codec: write frame payload")
	}
	return nil
}

// ReadFrame reads one length-prefixed block.
// Returns io.EOF when r is exhausted exactly at a frame boundary.
func ReadFrame(r io.Reader) ([]byte, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(ErrInvalidFrame, err.Error())
	}

	n := binary.BigEndian.Uint64(hdr[:])
	if n > MaxFrameSize {
		return nil, errors.Wrapf(ErrFrameTooLarge, "%d bytes", n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Wrap(ErrInvalidFrame, err.Error())
	}
	return payload, nil
}
