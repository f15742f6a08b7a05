package queue

import (
	"io"

	"github.com/pkg/errors"

	"github.com/huynhanx03/go-fifo/pkg/codec"
)

// Encode writes the content of q, front first, as length-prefixed frames.
// The queue is not modified.
func Encode[T any](w io.Writer, q *FIFO[T], c codec.Codec[T]) error {
	for i := len(q.outbox) - 1; i >= 0; i-- {
		if err := encodeItem(w, q.outbox[i], c); err != nil {
			return err
		}
	}
	for _, item := range q.inbox {
		if err := encodeItem(w, item, c); err != nil {
			return err
		}
	}
	return nil
}

func encodeItem[T any](w io.Writer, item T, c codec.Codec[T]) error {
	data, err := c.Marshal(item)
	if err != nil {
		return errors.Wrap(err, "queue: encode item")
	}
	return codec.WriteFrame(w, data)
}

// Decode rebuilds a queue from frames written by Encode.
func Decode[T any](r io.Reader, c codec.Codec[T]) (*FIFO[T], error) {
	q := New[T]()
	for {
		data, err := codec.ReadFrame(r)
		if err == io.EOF {
			return q, nil
		}
		if err != nil {
			return nil, err
		}

		item, err := c.Unmarshal(data)
		if err != nil {
			return nil, errors.Wrapf(err, "queue: decode item %d", q.Len())
		}
		q.Enqueue(item)
	}
}
