// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/churchsync/internal/log"
)

// parseEnv reads key and converts it with parse. Unset or empty variables and
// parse failures yield def; the source is logged for observability.
func parseEnv[T any](key string, def T, parse func(string) (T, error)) T {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.Debug().Str("key", key).Str("source", "default").Msg("using default value")
		return def
	}
	out, err := parse(v)
	if err != nil {
		logger.Warn().Err(err).
			Str("key", key).
			Msg("invalid value in environment variable, using default")
		return def
	}
	ev := logger.Debug().Str("key", key).Str("source", "environment")
	if isSensitive(key) {
		ev = ev.Bool("sensitive", true)
	} else {
		ev = ev.Str("value", v)
	}
	ev.Msg("using environment variable")
	return out
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	for _, marker := range []string{"token", "password", "secret", "api_key", "key_id"} {
		if strings.Contains(k, marker) {
			return true
		}
	}
	return false
}

// ParseString reads a string from the environment or returns def.
func ParseString(key, def string) string {
	return parseEnv(key, def, func(s string) (string, error) { return s, nil })
}

// ParseInt reads an integer from the environment or returns def.
func ParseInt(key string, def int) int {
	return parseEnv(key, def, strconv.Atoi)
}

// ParseDuration reads a Go duration ("90s", "144h") from the environment or returns def.
func ParseDuration(key string, def time.Duration) time.Duration {
	return parseEnv(key, def, time.ParseDuration)
}

// ParseBool accepts true/false, 1/0 and yes/no, case-insensitively.
func ParseBool(key string, def bool) bool {
	return parseEnv(key, def, func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, fmt.Errorf("not a boolean: %q", s)
	})
}

// ParseList reads a comma separated list, dropping blanks.
func ParseList(key string, def []string) []string {
	return parseEnv(key, def, func(s string) ([]string, error) {
		return splitList(s), nil
	})
}

// ParseIntList reads a comma separated list of integers.
func ParseIntList(key string, def []int) []int {
	return parseEnv(key, def, func(s string) ([]int, error) {
		parts := splitList(s)
		out := make([]int, 0, len(parts))
		for _, p := range parts {
			i, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("invalid integer %q: %w", p, err)
			}
			out = append(out, i)
		}
		return out, nil
	})
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
