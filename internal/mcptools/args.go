package mcptools

import "fmt"

// requireFloat64 extracts a number from args, distinguishing a missing key
// from a value of the wrong type.
func requireFloat64(args map[string]any, key string) (float64, error) {
	v, exists := args[key]
	if !exists || v == nil {
		return 0, fmt.Errorf("%s is required", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number, got %T", key, v)
	}
	return f, nil
}

// requireString extracts a non-empty string from args.
func requireString(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// optionalFloat64 returns args[key] when it is a number, otherwise fallback.
func optionalFloat64(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

// optionalString returns args[key] and whether it was supplied as a string.
func optionalString(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}
