package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Metadata values reach this layer through two decoders: S3 user metadata,
// which is always strings, and JSON bodies, where every number is a
// float64. The converters below accept both shapes plus the plain Go
// scalars tests construct directly. Unparsable values coerce to the zero
// value; a single odd annotation must not break a scan.

// ToString renders a metadata value as a string.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToInt coerces a metadata value to int.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(v))
		return i
	case []byte:
		i, _ := strconv.Atoi(strings.TrimSpace(string(v)))
		return i
	default:
		i, _ := strconv.Atoi(fmt.Sprintf("%v", v))
		return i
	}
}

// ToBool coerces a metadata value to bool. "1", "true", and "yes" count as
// true in any case; everything unrecognized is false.
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return truthy(v)
	case []byte:
		return truthy(string(v))
	case int, int32, int64, float32, float64:
		return ToInt(v) == 1
	default:
		return false
	}
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
