package cli

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/conifer/pkg"
)

// baseConfig is the base name of the CLI's own configuration file and of
// the section holding flag defaults within it.
const baseConfig = "config"

// pathEnvVar names the environment variable holding extra directories
// searched for configuration sources.
const pathEnvVar = "CONIFER_PATH"

// stdinSource is the conventional argument naming standard input.
const stdinSource = "-"

var defaultDirMode os.FileMode = 0o700

// configDir returns the directory holding the CLI's own configuration.
var configDir = sync.OnceValue(
	func() string {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".config")
			} else {
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, pkg.Name)
	},
)

// cacheDir returns the cache directory used for transient files such as
// REPL history and pprof output.
var cacheDir = sync.OnceValue(
	func() string {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".cache")
			} else {
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, pkg.Name)
	},
)

// configPath joins the configuration directory with the given elements.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// searchPath composes the directories searched for configuration sources
// named on the command line: explicit --include directories first, then
// $CONIFER_PATH, then the configuration directory.
func searchPath(include []string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(os.Getenv(pathEnvVar), configDir()),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(include...),
		mung.WithFilter(func(dir string) bool { return dir != "" }),
	).String()

	return strings.Split(joined, string(os.PathListSeparator))
}

// findSource resolves a source argument against the search path. Absolute
// paths and paths that exist as given are returned unchanged; a bare name
// is tried in each search directory in order. When nothing matches, the
// argument is returned as-is for the loader to treat as inline text.
func findSource(name string, include []string) string {
	if name == stdinSource {
		return name
	}

	if _, err := os.Stat(name); err == nil || filepath.IsAbs(name) {
		return name
	}

	for _, dir := range searchPath(include) {
		full := filepath.Join(dir, name)
		if _, err := os.Stat(full); err == nil {
			return full
		}
	}

	return name
}

// mkdirAllRequired creates the runtime directories used by the CLI.
func mkdirAllRequired() error {
	if err := os.MkdirAll(configDir(), defaultDirMode); err != nil {
		return err
	}

	return os.MkdirAll(cacheDir(), defaultDirMode)
}
