package wire

// convert.go holds the small numeric/string coercions needed when
// pulling values back out of a generically-decoded CBOR payload
// (interface{} map values can surface as int64, uint64, or float64
// depending on how the writer encoded them).

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func toString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func toBytes(v interface{}) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	default:
		return nil, false
	}
}

// genericMap normalizes a decoded CBOR map value (which may surface as
// map[interface{}]interface{} or map[string]interface{} depending on
// key types used on the wire) into a single lookup-by-any-key form.
type genericMap map[interface{}]interface{}

func asGenericMap(v interface{}) (genericMap, bool) {
	switch m := v.(type) {
	case map[interface{}]interface{}:
		return genericMap(m), true
	case map[string]interface{}:
		gm := make(genericMap, len(m))
		for k, val := range m {
			gm[k] = val
		}
		return gm, true
	case map[int]interface{}:
		gm := make(genericMap, len(m))
		for k, val := range m {
			gm[k] = val
		}
		return gm, true
	default:
		return nil, false
	}
}

// get looks up a value by trying the canonical integer key first (as
// int64, uint64 or int — CBOR decoders are inconsistent about which),
// then the string name. Either representation may be present
// depending on which encoding produced the payload.
func (gm genericMap) get(intKey int, name string) (interface{}, bool) {
	if v, ok := gm[int64(intKey)]; ok {
		return v, true
	}
	if v, ok := gm[uint64(intKey)]; ok {
		return v, true
	}
	if v, ok := gm[intKey]; ok {
		return v, true
	}
	if v, ok := gm[name]; ok {
		return v, true
	}
	return nil, false
}

// stringKeys returns every key present, decoded as a string when it maps to
// a known canonical int in ns, or as the literal string key otherwise.
// Used to recover NodeProps.Extra / unknown keys.
func (gm genericMap) stringKeys(ns *keyNamespace) map[string]interface{} {
	out := make(map[string]interface{}, len(gm))
	for k, v := range gm {
		switch kk := k.(type) {
		case string:
			out[kk] = v
		case int64:
			if name, ok := ns.ToName(int(kk)); ok {
				out[name] = v
			}
		case uint64:
			if name, ok := ns.ToName(int(kk)); ok {
				out[name] = v
			}
		case int:
			if name, ok := ns.ToName(kk); ok {
				out[name] = v
			}
		}
	}
	return out
}
