// Package resolver implements spec.md §4.1's layered URL resolution
// pipeline: custom parse -> alias -> non-local guard -> custom skip ->
// split -> resolution body -> fallback -> not-found. Grounded on esbuild's
// internal/resolver.Resolver, trimmed to this spec's simpler (no
// tsconfig paths, no Yarn PnP) but still multi-step pipeline.
package resolver

import (
	"regexp"
	"strings"

	"github.com/modpack/bundler/internal/fsys"
	"github.com/modpack/bundler/internal/logger"
	"github.com/modpack/bundler/internal/options"
)

// Usage is the context a URL appears in (spec.md GLOSSARY).
type Usage uint8

const (
	UsageInline Usage = iota
	UsageLocal
	UsageRequire
)

// Result is spec.md §3's ResolveResult.
type Result struct {
	AbsPath string
	Query   string
	Hash    string
	// Alias is the original, unaliased base path, set only when the alias
	// table rewrote the path.
	Alias string
}

// Diagnostic is a resolution failure or warning, carrying enough context
// for logger.Msg (spec.md §7).
type Diagnostic struct {
	Severity options.Severity
	Text     string
}

var nonLocalPattern = regexp.MustCompile(`^\w\w+:|^//`)
var splitPattern = regexp.MustCompile(`^([^?#]*)(\?[^#]*)?(#.*)?$`)

// Resolver holds everything that must persist across a build: the
// process-wide native-shim table and the filesystem. Per-module state (the
// bare-specifier cache) is passed in by the caller because spec.md scopes
// it "per module", not per build.
type Resolver struct {
	FS    fsys.FS
	Shims NativeShimTable
}

func New(fs fsys.FS) *Resolver {
	return &Resolver{FS: fs, Shims: DefaultNativeShims()}
}

// Cache is the per-module bare-specifier memoisation table (spec.md §4.1:
// "The bare-specifier cache maps the specifier ... to its resolved
// absolute path, per module").
type Cache struct {
	entries map[string]string
}

func NewCache() *Cache { return &Cache{entries: map[string]string{}} }

// Resolve runs the full pipeline for one raw URL discovered while scanning
// `fromFile`. It never returns both a Result and a Diagnostic with
// SeverityError; a nil Result with a nil Diagnostic means "skip silently"
// (steps 3b/4 for non-inline/local usages, or an explicit skip hook).
func (r *Resolver) Resolve(fromFile *fsys.File, opts options.Options, cache *Cache, rawURL string, usage Usage) (*Result, *Diagnostic) {
	url := rawURL

	// 1. Custom parse hook.
	if opts.Resolve.Parse != nil {
		url = opts.Resolve.Parse(url)
	}

	// 2. Alias rewrite.
	aliasedFrom, url := applyAlias(opts.Resolve.Alias, url)

	// 3. Non-local guard.
	if nonLocalPattern.MatchString(url) {
		if usage == UsageLocal {
			switch opts.Resolve.NonLocal {
			case options.SeverityError:
				return nil, &Diagnostic{Severity: options.SeverityError, Text: "non-local URL '" + rawURL + "' used in a local-only context"}
			case options.SeverityWarning:
				return nil, &Diagnostic{Severity: options.SeverityWarning, Text: "non-local URL '" + rawURL + "' used in a local-only context"}
			default:
				return nil, nil
			}
		}
		return nil, nil
	}

	// 4. Custom skip hook.
	if opts.Resolve.Skip != nil && opts.Resolve.Skip(url) {
		return nil, nil
	}

	// 5. Split into (path, query, hash).
	path, query, hash := split(url)

	// 6. Resolution body.
	var absPath string
	var ok bool
	if usage == UsageRequire && opts.Resolve.CommonJS {
		absPath, ok = r.resolveCommonJS(fromFile, opts, cache, path)
	} else {
		absPath, ok = r.resolveRelative(fromFile, opts, path)
	}

	// 7. Fallback hook.
	if !ok && opts.Resolve.Fallback != nil {
		if candidate := opts.Resolve.Fallback(url); candidate != "" && r.FS != nil && fsys.ExistsFile(r.FS, candidate) {
			absPath, ok = candidate, true
		}
	}

	// 8. Not found.
	if !ok {
		severity := opts.Resolve.NotFound
		if usage == UsageInline && severity == options.SeverityError {
			// inline usage defaults to warning severity (spec.md §4.1 step 8)
			severity = options.SeverityWarning
		}
		if severity == options.SeverityIgnore {
			return nil, nil
		}
		return nil, &Diagnostic{Severity: severity, Text: "could not resolve '" + rawURL + "'"}
	}

	result := &Result{AbsPath: absPath, Query: query, Hash: hash}
	if aliasedFrom != "" {
		result.Alias = aliasedFrom
	}
	return result, nil
}

func split(url string) (path, query, hash string) {
	m := splitPattern.FindStringSubmatch(url)
	if m == nil {
		return url, "", ""
	}
	return m[1], m[2], m[3]
}

// resolveRelative probes `path` relative to fromFile's directory only — no
// extension search, no package lookup (used for usage=inline/local, or
// usage=require with CommonJS disabled).
func (r *Resolver) resolveRelative(fromFile *fsys.File, opts options.Options, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	candidate := fromFile.Relative(path)
	if fsys.ExistsFile(r.FS, candidate) {
		return candidate, true
	}
	return "", false
}

func applyAlias(alias map[string]string, url string) (aliasedFrom string, rewritten string) {
	if len(alias) == 0 {
		return "", url
	}
	lowerURL := strings.ToLower(strings.TrimSuffix(url, "/"))
	var bestKey, bestValue string
	bestLen := -1
	for key, value := range alias {
		k := strings.ToLower(strings.TrimSuffix(key, "/"))
		if k == "" {
			continue
		}
		if !strings.HasPrefix(lowerURL, k) {
			continue
		}
		// prefix must end at '/' or string end
		rest := url[len(k):]
		if rest != "" && rest[0] != '/' {
			continue
		}
		if len(k) > bestLen {
			bestLen = len(k)
			bestKey = key
			bestValue = strings.TrimSuffix(value, "/")
		}
	}
	if bestLen < 0 {
		return "", url
	}
	return url, bestValue + url[bestLen:]
}

// ToLogMsg turns a Diagnostic into a logger.Msg at a given source location.
func (d Diagnostic) ToLogMsg(loc *logger.Location) logger.Msg {
	kind := logger.Warning
	if d.Severity == options.SeverityError {
		kind = logger.Error
	}
	return logger.Msg{Kind: kind, Text: d.Text, Location: loc}
}
