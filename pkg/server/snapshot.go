package server

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/huynhanx03/go-fifo/pkg/codec"
	"github.com/huynhanx03/go-fifo/pkg/common/http/validation"
	"github.com/huynhanx03/go-fifo/pkg/datastructs/queue"
)

const snapshotExt = ".fifo"

// ErrInvalidSnapshot is returned by Load for a file not named after a valid queue.
var ErrInvalidSnapshot = errors.New("snapshot: file name is not a queue name")

// Save writes every queue to dir, one file per queue, replacing older files.
// Files of queues that no longer exist are removed.
func (m *MemoryBackend) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "snapshot: create dir")
	}

	live := make(map[string]struct{})
	for _, name := range m.queues.Names() {
		q, ok := m.queues.Lookup(name)
		if !ok {
			continue
		}
		if err := writeSnapshot(filepath.Join(dir, name+snapshotExt), q.Snapshot()); err != nil {
			return errors.Wrapf(err, "snapshot: queue %s", name)
		}
		live[name] = struct{}{}
	}
	return removeStale(dir, live)
}

// removeStale deletes snapshot files in dir whose queue is not in live.
func removeStale(dir string, live map[string]struct{}) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+snapshotExt))
	if err != nil {
		return err
	}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), snapshotExt)
		if _, ok := live[name]; ok {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "snapshot: remove %s", name)
		}
	}
	return nil
}

func writeSnapshot(path string, q *queue.FIFO[json.RawMessage]) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := queue.Encode(w, q, codec.JSON[json.RawMessage]{}); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load restores queues saved by Save, replacing queues of the same name.
// A missing dir is not an error.
func (m *MemoryBackend) Load(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+snapshotExt))
	if err != nil {
		return 0, err
	}

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), snapshotExt)
		if !validation.IsQueueName(name) {
			return 0, errors.Wrapf(ErrInvalidSnapshot, "file %s", filepath.Base(path))
		}
		q, err := readSnapshot(path)
		if err != nil {
			return 0, errors.Wrapf(err, "snapshot: queue %s", name)
		}

		restored := queue.NewSynchronized[json.RawMessage]()
		restored.Restore(q)
		m.queues.Put(name, restored)
	}
	return len(paths), nil
}

func readSnapshot(path string) (*queue.FIFO[json.RawMessage], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return queue.Decode(bufio.NewReader(f), codec.JSON[json.RawMessage]{})
}
