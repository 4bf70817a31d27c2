package e2e

import (
	"os"
	"strings"
)

// mergeEnv overlays extra KEY=VALUE pairs on the current environment and
// drops inherited TRANSCRIBER_ settings so tests only see their own.
func mergeEnv(extra []string) []string {
	env := make(map[string]string)
	add := func(kvs []string, skipOwn bool) {
		for _, kv := range kvs {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || (skipOwn && strings.HasPrefix(key, "TRANSCRIBER_")) {
				continue
			}
			env[key] = value
		}
	}
	add(os.Environ(), true)
	add(extra, false)

	result := make([]string, 0, len(env))
	for key, value := range env {
		result = append(result, key+"="+value)
	}
	return result
}
