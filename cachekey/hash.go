// Package cachekey computes the scheduler's content-addressed cache keys:
// a deterministic fingerprint of a node's id, its parameters, and the
// revisions of its upstream frames. It intentionally uses a fast
// non-cryptographic mixer (FNV-1a, the same choice the teacher repo's
// cache package makes for shard/key hashing) rather than a cryptographic
// hash — the contract is equality and diffusion, not tamper resistance.
package cachekey

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Compute returns a deterministic fingerprint for (nodeID, params, revs).
// It is order-independent across params (keys are sorted before
// serialization) and order-dependent across revs (upstream order matters:
// swapping two inputs must invalidate the cache).
func Compute(nodeID string, params map[string]any, revs []uint64) string {
	var b strings.Builder
	b.WriteString(nodeID)
	b.WriteByte(0)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(stringifyParam(params[k]))
		b.WriteByte(0)
	}

	for _, r := range revs {
		b.WriteString(strconv.FormatUint(r, 10))
		b.WriteByte(',')
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(b.String())) // fnv.Write never returns an error
	return strconv.FormatUint(h.Sum64(), 16)
}

// stringifyParam renders a JSON-decoded param value canonically. Numbers
// decoded from JSON arrive as float64; strconv.FormatFloat with -1
// precision round-trips them without spurious trailing zeros.
func stringifyParam(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmtFallback(val)
	}
}

func fmtFallback(v any) string {
	return strconv.Quote(strconvSprint(v))
}

// strconvSprint avoids pulling in fmt for the rare non-primitive param
// value (e.g. a nested map from a future node kind); it's a narrow,
// deterministic stand-in, not a general formatter.
func strconvSprint(v any) string {
	switch val := v.(type) {
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = stringifyParam(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ":" + stringifyParam(val[k])
		}
		return strings.Join(parts, ",")
	default:
		return "?"
	}
}
