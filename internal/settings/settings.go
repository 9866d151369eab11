// Package settings holds the paths and pins v8build works with. Values come
// from built-in defaults, then an optional v8build.toml, then command-line
// flags.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRevision      = "4fc9a2fe7f8a7ef1e7966185b39b3b541792669a"
	DefaultDepotToolsURL = "https://chromium.googlesource.com/chromium/tools/depot_tools.git"

	// FileName is looked up in the project root.
	FileName = "v8build.toml"
)

var log = logrus.WithField("part", "settings")

// Settings is the resolved configuration of one invocation.
type Settings struct {
	Root          string `toml:"-"`
	Revision      string `toml:"revision"`
	DepotToolsURL string `toml:"depot-tools-url"`
	ThirdParty    string `toml:"third-party"`
	BuildDir      string `toml:"build-dir"`
	ArgsLibrary   string `toml:"args-library"`
	NinjaTarget   string `toml:"ninja-target"`
}

// Defaults returns the built-in settings for root.
func Defaults(root string) Settings {
	return Settings{
		Root:          root,
		Revision:      DefaultRevision,
		DepotToolsURL: DefaultDepotToolsURL,
		ThirdParty:    "third_party",
		BuildDir:      "build",
		ArgsLibrary:   "args-library.json",
		NinjaTarget:   "v8_monolith",
	}
}

// Load returns the defaults for root overlaid with the first settings file
// found. An explicit path must exist; otherwise the project file and then the
// user file are tried and a missing file is not an error. The returned path is
// the file that was applied, or "".
func Load(root, explicit string) (Settings, string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Settings{}, "", fmt.Errorf("resolving root %s: %w", root, err)
	}
	s := Defaults(absRoot)

	if explicit != "" {
		if err := s.apply(explicit); err != nil {
			return Settings{}, "", err
		}
		return s, explicit, nil
	}

	candidates := []string{filepath.Join(absRoot, FileName)}
	if user, err := userConfigPath(); err == nil {
		candidates = append(candidates, user)
	} else {
		log.Debugf("no user settings: %v", err)
	}
	for _, path := range candidates {
		err := s.apply(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Settings{}, "", err
		}
		return s, path, nil
	}
	return s, "", nil
}

func (s *Settings) apply(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	var file Settings
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing settings %s: %w", path, err)
	}
	s.Override(file)
	log.Debugf("applied settings from %s", path)
	return nil
}

// Override copies every non-empty field of o except Root onto s.
func (s *Settings) Override(o Settings) {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&s.Revision, o.Revision)
	set(&s.DepotToolsURL, o.DepotToolsURL)
	set(&s.ThirdParty, o.ThirdParty)
	set(&s.BuildDir, o.BuildDir)
	set(&s.ArgsLibrary, o.ArgsLibrary)
	set(&s.NinjaTarget, o.NinjaTarget)
}

// Path resolves p against the root unless it is already absolute.
func (s Settings) Path(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.Root, p)
}

func userConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil || configDir == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			if err != nil {
				return "", fmt.Errorf("unable to resolve config directory: %w", err)
			}
			return "", fmt.Errorf("unable to resolve config directory: %w", homeErr)
		}
		configDir = filepath.Join(home, ".v8build")
	} else {
		configDir = filepath.Join(configDir, "v8build")
	}
	return filepath.Join(configDir, "config.toml"), nil
}
