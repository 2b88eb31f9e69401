// internal/app/heightmap.go
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"radar-ppi/internal/config"
	"radar-ppi/internal/log"
	"radar-ppi/pkg/heightmap"
)

const heightmapCacheTTL = 24 * time.Hour

// NewFieldCache создаёт кэш тайлов рельефа на время жизни процесса.
// Пустой cache_dir означает пользовательский каталог кэша.
func NewFieldCache(hs config.HeightmapSettings, lg *log.Logger) *heightmap.Cache {
	dir := hs.CacheDir
	if dir == "" {
		if base, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(base, "radar-ppi")
		}
	}
	return heightmap.NewCache(dir, config.HeightmapCacheSize, heightmapCacheTTL, lg)
}

// LoadField acquires the elevation grid named by the settings. It runs once,
// before any task is registered; failures are returned, never papered over with
// flat terrain. Remote tiles go through cache; a nil cache fetches every time.
func LoadField(ctx context.Context, hs config.HeightmapSettings, cache *heightmap.Cache, lg *log.Logger) (*heightmap.Field, error) {
	start := time.Now()
	var (
		f   *heightmap.Field
		err error
	)
	switch hs.Source {
	case config.SourceFlat:
		f = heightmap.Flat(config.FlatGridSize, config.FlatGridSize)
	case config.SourceFile:
		f, err = heightmap.Load(hs.Path, hs.MaxHeight)
	case config.SourceRemote:
		f, err = loadRemote(ctx, hs, cache, lg)
	default:
		err = fmt.Errorf("%w: unknown source %q", config.ErrInvalidHeightmap, hs.Source)
	}
	if err != nil {
		return nil, err
	}
	lg.Info("heightmap loaded", "source", hs.Source, "width", f.Width, "height", f.Height,
		"elapsed", time.Since(start))
	return f, nil
}

func loadRemote(ctx context.Context, hs config.HeightmapSettings, cache *heightmap.Cache, lg *log.Logger) (*heightmap.Field, error) {
	rs := hs.Remote
	remote := heightmap.Remote{
		BaseURL: rs.URL,
		Key:     rs.Key,
		Width:   rs.Width,
		Height:  rs.Height,
		Center:  rs.Center,
		Zoom:    rs.Zoom,
		MapType: rs.MapType,
		Styles:  rs.Styles,
	}
	if remote.Key == "" {
		remote.Key = os.Getenv("RADAR_PPI_MAPS_KEY")
	}

	fetch := func(ctx context.Context) (*heightmap.Field, error) {
		lg.Info("fetching heightmap tile", "center", remote.Center, "zoom", remote.Zoom)
		return remote.Fetch(ctx, hs.MaxHeight)
	}
	if cache == nil {
		return fetch(ctx)
	}
	return cache.Get(ctx, remote.CacheKey(hs.MaxHeight), fetch)
}
