package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name used for the per-user configuration and
// cache directories and, upper-cased, for environment variable names.
//
// Prefix is the base name of the executable without its extension, except
// that a dlv debug binary ("__debug_bin" plus digits) maps to [Name] and
// leading dots are removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))
		id = debugBinary.ReplaceAllString(id, Name)
		id = strings.TrimLeft(id, ".")

		if id == "" {
			return Name
		}

		return id
	},
)

var debugBinary = regexp.MustCompile(`^__debug_bin\d*$`)

// EnvName returns the environment variable name for key, qualified by
// [Prefix]. For example, EnvName("config-dir") is "AREPORT_CONFIG_DIR".
func EnvName(key string) string {
	name := Prefix() + "_" + key

	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}

// ConfigDir returns the directory holding config.yaml. It is the value of
// the CONFIG_DIR environment variable (see [EnvName]) when set, otherwise
// the [Prefix] subdirectory of the user configuration directory.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return userDir("config-dir", os.UserConfigDir, ".config")
	},
)

// CacheDir returns the directory holding REPL history and profiles. It is
// the value of the CACHE_DIR environment variable (see [EnvName]) when set,
// otherwise the [Prefix] subdirectory of the user cache directory.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return userDir("cache-dir", os.UserCacheDir, ".cache")
	},
)

// userDir resolves a per-user directory. The environment override is used
// verbatim. Otherwise base is tried, then the hidden directory under $HOME,
// then the working directory.
func userDir(key string, base func() (string, error), hidden string) string {
	if dir := os.Getenv(EnvName(key)); dir != "" {
		return dir
	}

	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
