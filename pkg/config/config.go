// Package config provides a read-only key/value configuration loaded once per
// process from defaults, an optional YAML file and environment variables.
//
// Nested YAML maps are flattened into dotted keys:
//
//	server:
//	  address: ":8080"
//
// becomes "server.address". Environment variables override file values:
// with the default prefix, OPENFRAME_SERVER_ADDRESS sets "server.address".
//
//	cfg, err := config.Load(
//	    config.WithFile("openframe.yaml"),
//	    config.WithDefaults(map[string]string{"server.address": ":8080"}),
//	)
//	addr := cfg.Get("server.address", ":8080")
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultEnvPrefix is prepended to environment variable names.
const DefaultEnvPrefix = "OPENFRAME"

// Config errors.
var (
	ErrReadFile  = errors.New("config: failed to read file")
	ErrParseFile = errors.New("config: failed to parse file")
)

// Config is an immutable key/value lookup. It is safe for concurrent use.
type Config struct {
	values map[string]string
}

type loader struct {
	defaults  map[string]string
	environ   func() []string
	file      string
	envPrefix string
	optional  bool
}

// Option configures Load.
type Option func(*loader)

// WithFile reads a YAML file. Missing files are an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = path
		l.optional = false
	}
}

// WithOptionalFile reads a YAML file if it exists.
func WithOptionalFile(path string) Option {
	return func(l *loader) {
		l.file = path
		l.optional = true
	}
}

// WithDefaults sets fallback values applied before the file and environment.
func WithDefaults(defaults map[string]string) Option {
	return func(l *loader) {
		maps.Copy(l.defaults, defaults)
	}
}

// WithEnvPrefix overrides the environment prefix. An empty prefix disables
// environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}

// WithEnviron replaces os.Environ as the environment source.
func WithEnviron(fn func() []string) Option {
	return func(l *loader) {
		if fn != nil {
			l.environ = fn
		}
	}
}

// Load builds a Config. Precedence, lowest first: defaults, file, environment.
func Load(opts ...Option) (*Config, error) {
	l := &loader{
		defaults:  make(map[string]string),
		environ:   os.Environ,
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}

	values := lowerKeys(l.defaults)

	if l.file != "" {
		fileValues, err := readFile(l.file)
		switch {
		case err == nil:
			maps.Copy(values, fileValues)
		case l.optional && errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	if l.envPrefix != "" {
		prefix := strings.ToUpper(l.envPrefix) + "_"
		for _, kv := range l.environ() {
			name, value, ok := strings.Cut(kv, "=")
			if !ok || !strings.HasPrefix(name, prefix) {
				continue
			}
			key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(name, prefix), "_", "."))
			if key != "" {
				values[key] = value
			}
		}
	}

	return &Config{values: values}, nil
}

// New creates a Config from a flat map. Used in tests and for embedding.
func New(values map[string]string) *Config {
	return &Config{values: lowerKeys(values)}
}

// Get returns the value for key, or def when absent. A nil Config yields def.
func (c *Config) Get(key, def string) string {
	if v, ok := c.Lookup(key); ok {
		return v
	}
	return def
}

// Lookup returns the value for key.
func (c *Config) Lookup(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.values[strings.ToLower(key)]
	return v, ok
}

// Int returns the integer value for key, or def when absent or invalid.
func (c *Config) Int(key string, def int) int {
	if v, ok := c.Lookup(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Bool returns the boolean value for key, or def when absent or invalid.
func (c *Config) Bool(key string, def bool) bool {
	if v, ok := c.Lookup(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// Duration returns the duration value for key, or def when absent or invalid.
func (c *Config) Duration(key string, def time.Duration) time.Duration {
	if v, ok := c.Lookup(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}

// Keys returns all keys in sorted order.
func (c *Config) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.values))
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrParseFile, err)
	}

	out := make(map[string]string)
	for k, v := range doc {
		flatten(strings.ToLower(k), v, out)
	}
	return out, nil
}

func lowerKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}

func flatten(prefix string, node any, out map[string]string) {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			flatten(join(prefix, k), child, out)
		}
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		out[prefix] = strings.Join(parts, ",")
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func join(prefix, key string) string {
	key = strings.ToLower(key)
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
