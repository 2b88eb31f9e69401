// pkg/heightmap/cache.go
package heightmap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"radar-ppi/internal/log"
)

// WriteField stores a field as zstd-compressed msgpack.
func WriteField(w io.Writer, f *Field) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(f); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadField is the inverse of WriteField.
func ReadField(r io.Reader) (*Field, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var f Field
	if err := msgpack.NewDecoder(zr).Decode(&f); err != nil {
		return nil, err
	}
	if f.Width*f.Height != len(f.Elevations) || len(f.Elevations) == 0 {
		return nil, fmt.Errorf("cached field is %dx%d with %d samples: %w", f.Width, f.Height, len(f.Elevations), ErrEmptyImage)
	}
	return &f, nil
}

// Cache keeps recently used fields in memory and, if dir is set, on disk so a
// remote tile is fetched once.
type Cache struct {
	mem *expirable.LRU[string, *Field]
	dir string
	lg  *log.Logger
}

func NewCache(dir string, size int, ttl time.Duration, lg *log.Logger) *Cache {
	return &Cache{
		mem: expirable.NewLRU[string, *Field](max(size, 1), nil, ttl),
		dir: dir,
		lg:  lg,
	}
}

// Get returns the cached field for key or calls fetch and stores its result.
// Fetch errors are returned unchanged and nothing is cached.
func (c *Cache) Get(ctx context.Context, key string, fetch func(context.Context) (*Field, error)) (*Field, error) {
	if f, ok := c.mem.Get(key); ok {
		return f, nil
	}
	if f, err := c.readDisk(key); err == nil {
		c.lg.Debug("heightmap cache hit", "key", key, "source", "disk")
		c.mem.Add(key, f)
		return f, nil
	}

	f, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.mem.Add(key, f)
	if err := c.writeDisk(key, f); err != nil {
		c.lg.Warn("unable to persist heightmap", "key", key, "error", err)
	}
	return f, nil
}

func (c *Cache) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ',', '|', ' ':
			return '_'
		}
		return r
	}, key)
	return filepath.Join(c.dir, safe+".hmz")
}

func (c *Cache) readDisk(key string) (*Field, error) {
	if c.dir == "" {
		return nil, os.ErrNotExist
	}
	file, err := os.Open(c.path(key))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadField(file)
}

func (c *Cache) writeDisk(key string, f *Field) error {
	if c.dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	file, err := os.Create(c.path(key))
	if err != nil {
		return err
	}
	if err := WriteField(file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
