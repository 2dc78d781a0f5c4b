package mcpserver

import (
	"fmt"
	"math"
)

func boolPtr(v bool) *bool { return &v }

// getFloat returns a numeric argument, or def when it is absent.
func getFloat(args map[string]any, key string, def float64) float64 {
	if v, ok := numberArg(args, key); ok {
		return v
	}
	return def
}

// numberArg reads a finite JSON number argument.
func numberArg(args map[string]any, key string) (float64, bool) {
	v, ok := args[key].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func requireNumber(args map[string]any, key string) (float64, error) {
	v, ok := numberArg(args, key)
	if !ok {
		return 0, fmt.Errorf("%s is required and must be a number", key)
	}
	return v, nil
}

// intArg reads an optional integral argument in int32 range; absent means 0.
func intArg(args map[string]any, key string) (int, error) {
	if _, present := args[key]; !present {
		return 0, nil
	}
	v, ok := numberArg(args, key)
	if !ok || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return int(v), nil
}

func requireString(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}
