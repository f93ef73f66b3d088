package sqlite

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Value classes, checked in this order; the first match wins.
type valueClass int

const (
	classInteger valueClass = iota
	classBool
	classNull
	classQuoted
	classPlain
)

// quotedHints mark column type hints whose values are written as quoted text.
var quotedHints = []string{"char", "time", "text"}

// Serialize renders value as an SQL literal for a column with the given type
// hint:
//
//	integers        decimal text
//	booleans        1 or 0
//	empty values    null (nil, "", 0.0, zero time, empty bytes, nil pointer)
//	char/time/text  single-quoted, embedded quotes doubled
//	anything else   unquoted text
func Serialize(value any, hint string) string {
	v, class := classify(value, hint)
	switch class {
	case classInteger:
		return strconv.FormatInt(v.(int64), 10)
	case classBool:
		if v.(bool) {
			return "1"
		}
		return "0"
	case classNull:
		return "null"
	case classQuoted:
		return quote(text(v))
	default:
		return text(v)
	}
}

// BindValue converts value to the driver argument that stores what Serialize
// would have written.
func BindValue(value any, hint string) any {
	v, class := classify(value, hint)
	switch class {
	case classInteger:
		return v.(int64)
	case classBool:
		if v.(bool) {
			return int64(1)
		}
		return int64(0)
	case classNull:
		return nil
	case classQuoted:
		return text(v)
	default:
		switch f := v.(type) {
		case float32:
			return float64(f)
		case float64:
			return f
		case uint64:
			return f
		}
		return text(v)
	}
}

func classify(value any, hint string) (any, valueClass) {
	v := deref(value)
	if v == nil {
		return nil, classNull
	}
	if b, ok := v.(bool); ok {
		return b, classBool
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), classInteger
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return u, classPlain
		}
		return int64(u), classInteger
	case reflect.Bool:
		return rv.Bool(), classBool
	}
	if isEmpty(v, rv) {
		return nil, classNull
	}
	lower := strings.ToLower(hint)
	for _, h := range quotedHints {
		if strings.Contains(lower, h) {
			return v, classQuoted
		}
	}
	return v, classPlain
}

func deref(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func isEmpty(v any, rv reflect.Value) bool {
	switch x := v.(type) {
	case time.Time:
		return x.IsZero()
	case []byte:
		return len(x) == 0
	}
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	}
	return false
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return types.FormatTimestamp(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case uint64:
		return strconv.FormatUint(x, 10)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
