// Package errmsg turns the error shapes returned by Supabase (gotrue, postgrest,
// storage) and plain Go errors into a single human-readable string. The backend
// surfaces errors as native errors, strings, or loosely structured objects with
// fields like message/details/hint/error_description/msg, sometimes wrapped one
// level deep under an "error" key.
package errmsg

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// genericObjectToken is the useless stringification some upstream layers leak
// through. Normalize never returns it.
const genericObjectToken = "[object Object]"

const (
	msgUnknown         = "Unknown error"
	msgInvalidError    = "An unexpected error occurred (Invalid Error Message)"
	msgInvalidString   = "Unknown error (Invalid String)"
	msgDatabaseNoInfo  = "Database error (Details unavailable)"
	msgEmptyObject     = "An unexpected error occurred (Empty Object)"
	msgCircularObject  = "Unknown error object (Circular structure?)"
	maxNestingDepth    = 8
)

// Normalize produces exactly one non-empty display string for any error value.
// It never panics and never returns the generic object token.
func Normalize(v any) string {
	return normalize(v, 0)
}

func normalize(v any, depth int) string {
	switch e := v.(type) {
	case nil:
		return msgUnknown
	case error:
		if e == nil {
			return msgUnknown
		}
		msg := e.Error()
		if msg == genericObjectToken {
			return msgInvalidError
		}
		if msg == "" {
			return msgUnknown
		}
		return msg
	case string:
		if e == "" {
			return msgUnknown
		}
		if e == genericObjectToken {
			return msgInvalidString
		}
		return e
	case bool:
		if !e {
			return msgUnknown
		}
		return "true"
	case map[string]any:
		return normalizeMap(e, depth)
	default:
		// Structured values (postgrest error payloads decoded into structs,
		// arbitrary response bodies) are reduced to a map first so the ordered
		// field probing below applies uniformly.
		raw, err := json.Marshal(v)
		if err != nil {
			return msgCircularObject
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err == nil {
			return normalizeMap(m, depth)
		}
		s := fmt.Sprint(v)
		if s == "" || s == "0" || s == genericObjectToken {
			return msgUnknown
		}
		return s
	}
}

func normalizeMap(m map[string]any, depth int) string {
	// One level of wrapping: {"error": {...}} responses carry the real payload
	// inside. Depth-capped so a self-referencing map cannot loop.
	if inner, ok := m["error"].(map[string]any); ok && depth < maxNestingDepth {
		return normalize(inner, depth+1)
	}

	if rawMsg, ok := m["message"]; ok {
		switch mv := rawMsg.(type) {
		case map[string]any, []any:
			if b, err := json.Marshal(mv); err == nil {
				return string(b)
			}
			return msgCircularObject
		default:
			msg := fmt.Sprint(mv)
			if d, ok := m["details"]; ok && truthy(d) {
				msg += fmt.Sprintf(" (%v)", d)
			}
			if h, ok := m["hint"]; ok && truthy(h) {
				msg += fmt.Sprintf(" Hint: %v", h)
			}
			if msg == genericObjectToken {
				return msgDatabaseNoInfo
			}
			return msg
		}
	}

	if d, ok := m["error_description"]; ok {
		return fmt.Sprint(d)
	}
	if d, ok := m["msg"]; ok {
		return fmt.Sprint(d)
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return msgCircularObject
	}
	if js := string(raw); js != "{}" && js != "[]" {
		return js
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return msgEmptyObject
	}
	sort.Strings(keys)
	return "Error Keys: " + strings.Join(keys, ", ")
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}
