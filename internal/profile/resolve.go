package profile

import (
	"path/filepath"
	"strings"
)

// Platforms the args library knows about, keyed by target platform.
var osNames = map[string]string{
	"windows": "win",
	"darwin":  "osx",
	"linux":   "linux",
	"android": "android",
}

// Target is the platform, architecture and build type of one build.
type Target struct {
	Platform  string
	Arch      string
	BuildType string
}

func (t Target) String() string {
	return t.Platform + "/" + t.Arch + "/" + t.BuildType
}

// OutputDir returns the directory gn and ninja write this target to.
func (t Target) OutputDir(buildDir string) string {
	return filepath.Join(buildDir, t.Platform, t.Arch, t.BuildType)
}

// OSName maps a target platform to its args library scope.
func OSName(platform string) (string, error) {
	name, ok := osNames[platform]
	if !ok {
		return "", configErrorf(ReasonUnmappedPlatform, "no OS scope for platform %q", platform)
	}
	return name, nil
}

// Args is the merged flag set for one target.
type Args struct {
	*Scope
}

// Resolve merges common with the OS, architecture and build type scopes of
// target, in that order. Absent scopes are skipped.
func Resolve(table *Table, target Target) (*Args, error) {
	common, ok := table.Scope(CommonScope)
	if !ok {
		return nil, configErrorf(ReasonMissingCommon, "args library has no %q scope", CommonScope)
	}
	osName, err := OSName(target.Platform)
	if err != nil {
		return nil, err
	}

	merged := common.Clone()
	for _, name := range []string{osName, target.Arch, target.BuildType} {
		scope, ok := table.Scope(name)
		if !ok {
			log.Debugf("scope %q not in args library, skipping", name)
			continue
		}
		merged.Overlay(scope)
	}
	return &Args{Scope: merged}, nil
}

// Render renders the arguments as space separated key=value tokens.
func (a *Args) Render() (string, error) {
	tokens := make([]string, 0, a.Len())
	for _, key := range a.Keys() {
		value, _ := a.Get(key)
		text, err := stringify(key, value)
		if err != nil {
			return "", err
		}
		tokens = append(tokens, key+"="+text)
	}
	return strings.Join(tokens, " "), nil
}

// ResolveString resolves target and renders the result.
func ResolveString(table *Table, target Target) (string, error) {
	args, err := Resolve(table, target)
	if err != nil {
		return "", err
	}
	return args.Render()
}

func stringify(key string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case Literal:
		err := configErrorf(ReasonUnsupportedValue, "flag %q has unsupported %s value %s", key, v.Kind, v.Text)
		err.Key = key
		return "", err
	default:
		err := configErrorf(ReasonUnsupportedValue, "flag %q has unsupported value type %T", key, value)
		err.Key = key
		return "", err
	}
}
