package backend

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// String returns props[key] or def when unset or blank.
func String(props map[string]string, key, def string) string {
	if v := strings.TrimSpace(props[key]); v != "" {
		return v
	}
	return def
}

// Int parses props[key]; unset or blank yields def.
func Int(props map[string]string, key string, def int) (int, error) {
	v := strings.TrimSpace(props[key])
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("property %s: %w", key, err)
	}
	return n, nil
}

// Int64 parses props[key]; unset or blank yields def.
func Int64(props map[string]string, key string, def int64) (int64, error) {
	v := strings.TrimSpace(props[key])
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("property %s: %w", key, err)
	}
	return n, nil
}

// Duration parses props[key] with time.ParseDuration; unset or blank yields def.
func Duration(props map[string]string, key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(props[key])
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("property %s: %w", key, err)
	}
	return d, nil
}

// Bool parses props[key]; unset or blank yields def.
func Bool(props map[string]string, key string, def bool) (bool, error) {
	v := strings.TrimSpace(props[key])
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("property %s: %w", key, err)
	}
	return b, nil
}
