package artifact

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/agentnet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewInMemoryStore(),
		"file":   NewFileStore(t.TempDir()),
	}
}

func TestStore_SaveGet(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			data := []byte(`{"status":"completed"}`)
			require.NoError(t, s.Save("network_1", "run-1", data))

			data[0] = 'X'

			out, err := s.Get("network_1", "run-1")
			require.NoError(t, err)
			assert.Equal(t, `{"status":"completed"}`, string(out))

			out[0] = 'Y'
			again, err := s.Get("network_1", "run-1")
			require.NoError(t, err)
			assert.Equal(t, `{"status":"completed"}`, string(again))
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save("n", "r", []byte("1")))
			require.NoError(t, s.Save("n", "r", []byte("2")))

			out, err := s.Get("n", "r")
			require.NoError(t, err)
			assert.Equal(t, "2", string(out))
		})
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save("n", "b", []byte("2")))
			require.NoError(t, s.Save("n", "a", []byte("1")))
			require.NoError(t, s.Save("other", "c", []byte("3")))

			ids, err := s.List("n")
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, ids)

			require.NoError(t, s.Delete("n", "a"))
			assert.ErrorIs(t, s.Delete("n", "a"), core.ErrNotFound)

			ids, err = s.List("n")
			require.NoError(t, err)
			assert.Equal(t, []string{"b"}, ids)

			ids, err = s.List("empty")
			require.NoError(t, err)
			assert.Empty(t, ids)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("n", "missing")
			assert.ErrorIs(t, err, core.ErrNotFound)
			assert.ErrorIs(t, s.Delete("missing", "r"), core.ErrNotFound)
		})
	}
}

func TestStore_InvalidKeys(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range [][2]string{{"", "r"}, {"n", ""}, {"../etc", "r"}, {"n", "a/b"}, {"..", "r"}} {
				err := s.Save(key[0], key[1], []byte("x"))
				assert.ErrorIs(t, err, core.ErrInvalidArgument, key)
			}
		})
	}
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	s := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Save("n", fmt.Sprintf("run-%02d", i), []byte("x"))
		}(i)
	}
	wg.Wait()

	ids, err := s.List("n")
	require.NoError(t, err)
	assert.Len(t, ids, 20)
}
