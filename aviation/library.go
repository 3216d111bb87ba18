// aviation/library.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/skyglide/skyglide/log"
	"github.com/skyglide/skyglide/util"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
)

var (
	//go:embed resources/gliders/*.toml
	embeddedGliders embed.FS

	//go:embed resources/tasks/*.toml
	embeddedTasks embed.FS
)

// Library provides glider types by name. Definitions are validated when
// the library is loaded; parsed types are cached and re-read from the
// file system if they have been evicted.
type Library struct {
	fsys  fs.FS
	paths map[string]string // glider name -> path in fsys
	cache *expirable.LRU[string, *GliderType]
	mu    sync.Mutex
	lg    *log.Logger
}

// LoadLibrary loads and validates every *.toml file in dir of fsys
// concurrently. It fails if any definition is malformed or if two
// definitions share a name.
func LoadLibrary(fsys fs.FS, dir string, lg *log.Logger) (*Library, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: no glider definitions found", dir)
	}

	types := make([]*GliderType, len(files))
	var eg errgroup.Group
	for i, fn := range files {
		eg.Go(func() error {
			g, err := readGliderType(fsys, fn)
			types[i] = g
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	lib := &Library{
		fsys:  fsys,
		paths: make(map[string]string),
		cache: expirable.NewLRU[string, *GliderType](32, nil, 4*time.Hour),
		lg:    lg,
	}
	for i, g := range types {
		if prev, ok := lib.paths[g.Name]; ok {
			return nil, fmt.Errorf("%s: glider %q already defined in %s", files[i], g.Name, prev)
		}
		lib.paths[g.Name] = files[i]
		lib.cache.Add(g.Name, g)
	}
	lg.Infof("loaded %d glider types from %s", len(types), dir)
	return lib, nil
}

func readGliderType(fsys fs.FS, fn string) (*GliderType, error) {
	f, err := fsys.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := LoadGliderType(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return g, nil
}

// DefaultLibrary returns the library of built-in glider types.
func DefaultLibrary(lg *log.Logger) *Library {
	lib, err := LoadLibrary(embeddedGliders, "resources/gliders", lg)
	if err != nil {
		// The embedded definitions are validated by the tests.
		panic(err)
	}
	return lib
}

// Names returns the names of all glider types, sorted.
func (l *Library) Names() []string {
	return util.SortedMapKeys(l.paths)
}

// GliderType returns the named glider type. The name match is
// case-insensitive.
func (l *Library) GliderType(name string) (*GliderType, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.paths[name]; !ok {
		idx := slices.IndexFunc(l.Names(), func(n string) bool { return strings.EqualFold(n, name) })
		if idx == -1 {
			return nil, fmt.Errorf("%s: %w", name, ErrUnknownGliderType)
		}
		name = l.Names()[idx]
	}

	if g, ok := l.cache.Get(name); ok {
		return g, nil
	}
	l.lg.Debugf("%s: reloading glider type from %s", name, l.paths[name])
	g, err := readGliderType(l.fsys, l.paths[name])
	if err != nil {
		return nil, err
	}
	l.cache.Add(name, g)
	return g, nil
}

// LoadTaskFile loads a task from a file in fsys.
func LoadTaskFile(fsys fs.FS, fn string) (*Task, error) {
	f, err := fsys.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := LoadTask(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return t, nil
}

// BuiltinTasks returns the names of the built-in tasks.
func BuiltinTasks() []string {
	files, _ := fs.Glob(embeddedTasks, "resources/tasks/*.toml")
	return util.MapSlice(files, func(fn string) string {
		return strings.TrimSuffix(path.Base(fn), ".toml")
	})
}

// BuiltinTask loads the named built-in task.
func BuiltinTask(name string) (*Task, error) {
	return LoadTaskFile(embeddedTasks, path.Join("resources/tasks", name+".toml"))
}
