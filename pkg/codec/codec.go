package codec

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Codec converts queue items to and from bytes.
type Codec[T any] interface {
	Marshal(item T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

// JSON encodes items with encoding/json.
type JSON[T any] struct{}

var _ Codec[int] = JSON[int]{}

// Marshal encodes item as JSON.
func (JSON[T]) Marshal(item T) ([]byte, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, errors.Wrap(err, "codec: marshal")
	}
	return data, nil
}

// Unmarshal decodes a JSON document into a T.
func (JSON[T]) Unmarshal(data []byte) (T, error) {
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return item, errors.Wrap(err, "codec: unmarshal")
	}
	return item, nil
}
