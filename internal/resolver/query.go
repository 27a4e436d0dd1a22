package resolver

import "strings"

// QueryFlagKind discriminates resolveQuery's result so callers never have
// to guess whether -1 meant "absent" or "flag present" (spec.md §9 Open
// Questions calls this out explicitly: "implementers should surface this as
// a discriminated union (Flag | Bytes(n) | None) rather than overloaded
// numerics").
type QueryFlagKind uint8

const (
	QueryNone QueryFlagKind = iota
	QueryFlag
	QueryBytes
)

type QueryValue struct {
	Kind  QueryFlagKind
	Bytes int
}

// ResolveQuery implements spec.md §6's `resolveQuery(resolveResult, name)`:
// find the `?name` or `?name=value` pair, remove it from result.Query, and
// report whether it was a bare/true-ish flag or carried a numeric cap.
func ResolveQuery(result *Result, name string) QueryValue {
	if result.Query == "" {
		return QueryValue{Kind: QueryNone}
	}
	trimmed := strings.TrimPrefix(result.Query, "?")
	pairs := strings.Split(trimmed, "&")
	kept := pairs[:0:0]
	found := QueryValue{Kind: QueryNone}
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, value, hasValue := strings.Cut(pair, "=")
		if key != name {
			kept = append(kept, pair)
			continue
		}
		if !hasValue {
			found = QueryValue{Kind: QueryFlag}
			continue
		}
		switch value {
		case "true", "yes", "on":
			found = QueryValue{Kind: QueryFlag}
		default:
			if n, ok := parseUint(value); ok {
				found = QueryValue{Kind: QueryBytes, Bytes: n}
			} else {
				found = QueryValue{Kind: QueryFlag}
			}
		}
	}
	if len(kept) == 0 {
		result.Query = ""
	} else {
		result.Query = "?" + strings.Join(kept, "&")
	}
	return found
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
