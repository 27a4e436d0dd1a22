package resolver

import (
	"strings"

	"github.com/modpack/bundler/internal/fsys"
	"github.com/modpack/bundler/internal/options"
)

// resolveCommonJS implements spec.md §4.1 step 6's CommonJS-style search.
func (r *Resolver) resolveCommonJS(fromFile *fsys.File, opts options.Options, cache *Cache, path string) (string, bool) {
	if path == "" {
		return "", false
	}

	if path[0] == '.' || path[0] == '/' {
		base := path
		if path[0] != '/' {
			base = fromFile.Relative(path)
		}
		return r.probeExtensions(base, opts.Resolve.Extensions)
	}

	// Bare specifier.
	if cached, ok := cache.entries[path]; ok {
		return cached, true
	}

	// (a) Native shim table: when target=nodejs and a shim exists, the host
	// provides it, so resolution is skipped (no module is created for it).
	if opts.Target == options.TargetNodeJS {
		if _, isShimmed := r.Shims[path]; isShimmed {
			return "", false
		}
	}

	// (b) tryPackage walking up parent directories.
	if abs, ok := r.tryPackage(fromFile.Dir(), opts, path); ok {
		cache.entries[path] = abs
		return abs, true
	}

	// (c) absolute roots from resolve.root.
	for _, root := range opts.Resolve.Root {
		base := r.FS.Join(root, path)
		if abs, ok := r.probeExtensions(base, opts.Resolve.Extensions); ok {
			cache.entries[path] = abs
			return abs, true
		}
	}

	return "", false
}

// probeExtensions tries each `base+ext` in list order; `base` itself is
// tried only where `""` appears in the list (or the list is empty), at that
// entry's place in the order.
func (r *Resolver) probeExtensions(base string, extensions []string) (string, bool) {
	if len(extensions) == 0 {
		extensions = []string{""}
	}
	for _, ext := range extensions {
		candidate := base + ext
		if fsys.ExistsFile(r.FS, candidate) {
			return candidate, true
		}
	}
	return "", false
}

// tryPackage walks up from `startDir`, probing each resolve.modulesDirectories
// entry in every ancestor directory (spec.md §4.1 step 6(b)).
func (r *Resolver) tryPackage(startDir string, opts options.Options, specifier string) (string, bool) {
	dir := startDir
	for {
		for _, modDir := range opts.Resolve.ModulesDirectories {
			candidateDir := r.FS.Join(dir, modDir, specifier)

			// direct extension probe
			if abs, ok := r.probeExtensions(candidateDir, opts.Resolve.Extensions); ok {
				return abs, true
			}

			// package.json main field lookup
			pkgJSON := r.FS.Join(candidateDir, "package.json")
			if fsys.ExistsFile(r.FS, pkgJSON) {
				if main, ok := readPackageMain(r.FS, pkgJSON, opts.Resolve.PackageMains); ok {
					mainPath := r.FS.Join(candidateDir, main)
					if abs, ok := r.probeExtensions(mainPath, opts.Resolve.Extensions); ok {
						return abs, true
					}
				}
			}

			// sourceIndex<ext> fallback
			for _, ext := range opts.Resolve.Extensions {
				if ext == "" {
					continue
				}
				candidate := r.FS.Join(candidateDir, "sourceIndex"+ext)
				if fsys.ExistsFile(r.FS, candidate) {
					return candidate, true
				}
			}
		}

		parent := r.FS.Dir(dir)
		if parent == dir || parent == "" {
			break
		}
		dir = parent
	}
	return "", false
}

// SplitSpecifier breaks a bare specifier like "foo/bar" into its package
// name ("foo") and subpath ("bar"), honoring scoped packages ("@scope/pkg").
func SplitSpecifier(specifier string) (pkg string, subpath string) {
	if strings.HasPrefix(specifier, "@") {
		if i := strings.IndexByte(specifier, '/'); i != -1 {
			if j := strings.IndexByte(specifier[i+1:], '/'); j != -1 {
				return specifier[:i+1+j], specifier[i+2+j:]
			}
			return specifier, ""
		}
		return specifier, ""
	}
	if i := strings.IndexByte(specifier, '/'); i != -1 {
		return specifier[:i], specifier[i+1:]
	}
	return specifier, ""
}
