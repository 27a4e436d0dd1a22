package resolver

// NativeShimTable is the `node-libs-browser`-equivalent map spec.md §4.1
// step 6(b)(a) refers to: bare specifiers that the NodeJS host runtime
// already provides, so for a nodejs target the resolver skips creating a
// module for them rather than searching node_modules; for other targets
// their presence here changes nothing in resolution. The value is the
// browser-side shim package name, which the JS module kind's
// keyword-prepend handling (spec.md §4.5 JavaScript) uses to synthesize
// `var Buffer = require("...")`; an empty value means no such shim.
type NativeShimTable map[string]string

// DefaultNativeShims lists the subset of Node's builtin modules that have a
// well-known browser shim, mirroring the `node-libs-browser` package this
// spec calls out by name.
func DefaultNativeShims() NativeShimTable {
	return NativeShimTable{
		"assert":          "assert/",
		"buffer":          "buffer/",
		"child_process":   "",
		"cluster":         "",
		"console":         "console-browserify",
		"constants":       "constants-browserify",
		"crypto":          "crypto-browserify",
		"dgram":           "",
		"dns":             "",
		"domain":          "domain-browser",
		"events":          "events/",
		"fs":              "",
		"http":            "stream-http",
		"https":           "https-browserify",
		"net":             "",
		"os":              "os-browserify/browser",
		"path":            "path-browserify",
		"process":         "process/browser",
		"punycode":        "punycode/",
		"querystring":     "querystring-es3",
		"readline":        "",
		"repl":            "",
		"stream":          "stream-browserify",
		"string_decoder":  "string_decoder/",
		"sys":             "util/util.js",
		"timers":          "timers-browserify",
		"tls":             "",
		"tty":             "tty-browserify",
		"url":             "url/",
		"util":            "util/util.js",
		"vm":              "vm-browserify",
		"zlib":            "browserify-zlib",
	}
}
