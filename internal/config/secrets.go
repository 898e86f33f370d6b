package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
)

// Secret references let config values point at their real source
// instead of embedding credentials: "env://NAME" reads an environment
// variable, "file:///path/to/secret" reads a file. The postgres DSN is
// the usual carrier.

// resolveSecrets walks cfg and replaces secret references in every
// settable string field.
func resolveSecrets(cfg any) error {
	return rewriteStrings(reflect.ValueOf(cfg), readSecret)
}

// rewriteStrings visits settable string fields depth-first and rewrites
// each through fn.
func rewriteStrings(v reflect.Value, fn func(string) (string, error)) error {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			return rewriteStrings(v.Elem(), fn)
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			field := v.Field(i)
			if !field.CanSet() {
				continue
			}
			if err := rewriteStrings(field, fn); err != nil {
				return err
			}
		}
	case reflect.String:
		if v.CanSet() {
			resolved, err := fn(v.String())
			if err != nil {
				return err
			}
			v.SetString(resolved)
		}
	}
	return nil
}

// readSecret dereferences one secret reference. Values without a
// recognized scheme pass through unchanged; file contents are trimmed
// of surrounding whitespace.
func readSecret(raw string) (string, error) {
	switch {
	case strings.HasPrefix(raw, "env://"):
		name := strings.TrimPrefix(raw, "env://")
		value := os.Getenv(name)
		if value == "" {
			return "", fmt.Errorf("environment variable %q not set", name)
		}
		return value, nil

	case strings.HasPrefix(raw, "file://"):
		path := strings.TrimPrefix(raw, "file://")
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read secret file %q: %w", path, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return raw, nil
}
