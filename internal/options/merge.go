package options

// RawOptions is the JSON-shaped view of an option overlay: the pieces of
// Options that can come from a config file rather than from Go call sites
// (hook functions are never part of this — they're attached separately by
// the host, see Options.Resolve.Parse/Skip/Fallback).
type RawOptions map[string]interface{}

// DeepMerge implements spec.md §4.7 exactly: for each key in override, if
// the value is a non-array object (map[string]interface{}) and the
// destination isn't `false`, merge recursively (destination becomes an
// empty object if it wasn't one already); otherwise the override value
// replaces the destination wholesale, including arrays and primitives.
func DeepMerge(dst RawOptions, override RawOptions) RawOptions {
	if dst == nil {
		dst = RawOptions{}
	}
	for key, overrideValue := range override {
		overrideObj, isObj := overrideValue.(map[string]interface{})
		if !isObj {
			dst[key] = overrideValue
			continue
		}
		existing, hasExisting := dst[key]
		if existing == false {
			// destination explicitly disabled this subtree; leave it alone
			continue
		}
		var existingObj RawOptions
		if hasExisting {
			if m, ok := existing.(map[string]interface{}); ok {
				existingObj = RawOptions(m)
			}
		}
		dst[key] = map[string]interface{}(DeepMerge(existingObj, RawOptions(overrideObj)))
	}
	return dst
}

// Clone performs a structural deep copy so repeated SelectForFile calls
// never mutate a shared base.
func (r RawOptions) Clone() RawOptions {
	return cloneValue(map[string]interface{}(r)).(map[string]interface{})
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			out[k] = cloneValue(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, v := range t {
			out[i] = cloneValue(v)
		}
		return out
	default:
		return v
	}
}
