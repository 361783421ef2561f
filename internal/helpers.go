package internal

import (
	"context"
	"strconv"
)

// Scalar lists the types typed parameter helpers convert to.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ParamAs returns Param converted to T. def is returned when the value is
// absent or does not convert.
func ParamAs[T Scalar](ctx context.Context, key string, def T) (T, error) {
	raw, err := Param(ctx, key, "")
	if err != nil {
		return def, err
	}
	return convertOr(raw, def), nil
}

// PathParamAs returns PathParam converted to T, or def.
func PathParamAs[T Scalar](ctx context.Context, name string, def T) (T, error) {
	raw, err := PathParam(ctx, name)
	if err != nil {
		return def, err
	}
	return convertOr(raw, def), nil
}

func convertOr[T Scalar](raw string, def T) T {
	if raw == "" {
		return def
	}
	if v, ok := convertParam[T](raw); ok {
		return v
	}
	return def
}

func convertParam[T Scalar](raw string) (T, bool) {
	var zero T
	var out any
	var err error

	switch any(zero).(type) {
	case string:
		out = raw
	case int:
		out, err = strconv.Atoi(raw)
	case int64:
		out, err = strconv.ParseInt(raw, 10, 64)
	case float64:
		out, err = strconv.ParseFloat(raw, 64)
	case bool:
		out, err = strconv.ParseBool(raw)
	default:
		return zero, false
	}
	if err != nil {
		return zero, false
	}
	return out.(T), true
}
