package resolver

import (
	"encoding/json"

	"github.com/modpack/bundler/internal/fsys"
)

// readPackageMain reads the first string field present among packageMains
// (default nodejs: ["main"]; browser: ["browser","web","browserify","main"])
// from a package.json file, grounded on esbuild's
// internal/resolver/package_json.go parsePackageJSON main-field handling,
// trimmed to the single field spec.md §4.1 step 6(b) asks for (no
// "exports"/"imports" conditional maps — out of scope for this spec).
func readPackageMain(fs fsys.FS, pkgJSONPath string, packageMains []string) (string, bool) {
	data, err := fs.ReadFile(pkgJSONPath)
	if err != nil {
		return "", false
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", false
	}
	for _, field := range packageMains {
		if v, ok := fields[field]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}
