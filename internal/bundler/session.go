package bundler

import (
	"sync"

	"github.com/modpack/bundler/internal/fsys"
	"github.com/modpack/bundler/internal/logger"
	"github.com/modpack/bundler/internal/options"
	"github.com/modpack/bundler/internal/resolver"
	"golang.org/x/sync/singleflight"
)

// Session is the build-wide state spec.md §9 Design Notes asks to be
// modelled as "a map<FileId, Module> side-table owned by the build
// session, not by mutating file state", plus the resolver's process-wide
// native-shim table. One Session corresponds to one build.
type Session struct {
	FS       fsys.FS
	Log      *logger.Log
	Resolver *resolver.Resolver
	Base     options.Options

	modules sync.Map // absPath -> *Module
	group   singleflight.Group
}

func NewSession(fs fsys.FS, base options.Options) *Session {
	return &Session{
		FS:       fs,
		Log:      logger.NewLog(),
		Resolver: resolver.New(fs),
		Base:     base,
	}
}

// GetModule is spec.md §6's public `getModule(file, options) -> Module`:
// memoised on the file handle (spec.md §3 Lifecycle: "A module is created
// exactly once per file"). Concurrent callers resolving the same absolute
// path collapse into a single load() via singleflight, so a host driver
// that parallelizes multiple entry points never double-loads a shared
// dependency.
func (s *Session) GetModule(absPath string) *Module {
	if existing, ok := s.modules.Load(absPath); ok {
		return existing.(*Module)
	}

	result, _, _ := s.group.Do(absPath, func() (interface{}, error) {
		if existing, ok := s.modules.Load(absPath); ok {
			return existing.(*Module), nil
		}
		file := fsys.NewFile(s.FS, absPath)
		opts := options.SelectForFile(s.Base, absPath)
		m := newModule(s, file, opts)
		s.modules.Store(absPath, m)
		m.load()
		return m, nil
	})
	return result.(*Module)
}
