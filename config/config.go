// Package config loads the engine's runtime tunables: the @import depth
// ceiling, quirks-mode toggle, and whether http(s) fetches are permitted
// at all. Values come from a TOML file, with flag-based overrides left
// to the cmd/ entry point (mirroring the teacher's wpt/cmd/wptrun
// flag.String/Bool/Duration pattern).
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Options holds the engine tunables a cmd/ entry point assembles before
// constructing a resource.Fetcher/ImportResolver and css.StyleResolver.
type Options struct {
	// MaxImportDepth is loaded from the config file but not passed on:
	// resource.ImportResolver always bounds @import recursion with its own
	// resource.MaxImportDepth.
	MaxImportDepth int `toml:"max_import_depth"`

	// QuirksMode is loaded from the config file; neither the selector
	// matcher nor the cascade reads it.
	QuirksMode bool `toml:"quirks_mode"`

	// AllowHTTP permits resource.SchemeFetcher to dereference http(s)://
	// URLs. Disabled by default so a stylesheet can't trigger unexpected
	// network access merely by being parsed.
	AllowHTTP bool `toml:"allow_http"`

	// LocalPath is the filesystem root SchemeFetcher resolves relative
	// and file:// paths against.
	LocalPath string `toml:"local_path"`
}

// Default returns the engine's built-in tunables, used when no TOML
// file is supplied.
func Default() Options {
	return Options{
		MaxImportDepth: 256,
		QuirksMode:     false,
		AllowHTTP:      false,
		LocalPath:      "",
	}
}

// Load reads Options from a TOML file at path, starting from Default()
// so an incomplete file only overrides the keys it sets.
func Load(path string) (Options, error) {
	opts := Default()
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, fmt.Errorf("config: loading %s: %w", path, err)
	}
	return opts, nil
}
