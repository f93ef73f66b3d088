package types

import (
	"fmt"
	"strconv"
	"time"
)

// toInt64 converts a driver value to int64. NULL becomes 0.
func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		if x == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, x)
		}
		return n, nil
	case []byte:
		return toInt64(string(x))
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", ErrInvalidValue, v)
	}
}

// toString converts a driver value to a string. NULL becomes "".
func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return FormatTimestamp(x)
	default:
		return fmt.Sprint(x)
	}
}

func toBool(v any) (bool, error) {
	n, err := toInt64(v)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// nullID maps the zero id of an optional reference to NULL.
func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
