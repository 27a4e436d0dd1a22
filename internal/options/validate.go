package options

import (
	"strings"

	"github.com/modpack/bundler/internal/logger"
)

// Validate checks the option values spec.md leaves implicit — target must
// be one of the four literal dialects, resolve.extensions entries must be
// either empty (verbatim probe) or start with a dot — and reports
// violations through log rather than panicking, mirroring esbuild's
// internal/config validation helpers (validateLoaders, validateEngine):
// a malformed build option is a diagnostic, not a crash.
func Validate(o Options, log *logger.Log) {
	switch o.Target {
	case TargetUnset, TargetBrowser, TargetNodeJS, TargetTpack, TargetRequireJS:
	default:
		log.AddError(nil, "invalid target value")
	}
	for _, ext := range o.Resolve.Extensions {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			log.AddError(nil, "resolve.extensions entry '"+ext+"' must be empty or start with '.'")
		}
	}
	switch o.Css.Import {
	case CssImportNone, CssImportURL, CssImportInline, CssImportFunction:
	default:
		log.AddError(nil, "invalid css.import value")
	}
	if o.Css.Import == CssImportFunction && o.Css.ImportFunction == nil {
		log.AddError(nil, "css.import is 'function' but no css.importFunction hook was set")
	}
}
