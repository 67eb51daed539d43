// Package argument holds the key/value source of externally supplied build
// parameters. Values originate from command line tokens and the environment.
package argument

import (
	"strconv"
	"strings"
)

// Recognized keys read by the parameter resolver.
const (
	KeyTarget           = "buildTarget"
	KeyTargetGroup      = "buildTargetGroup"
	KeySubTarget        = "standaloneSubtarget"
	KeyBundleID         = "bundleId"
	KeyOutputFolder     = "outputFolder"
	KeyOutputFile       = "outputFile"
	KeyBuildNumber      = "buildNumber"
	KeyScriptingBackend = "scriptingImplementation"
	KeyDevelopment      = "development"
	KeyProfiler         = "connectProfiler"
	KeyDebug            = "scriptDebugging"
	KeyEnvironment      = "buildEnvironment"
	KeyProductName      = "productName"
	KeyBundleVersion    = "bundleVersion"
	KeyGitBranch        = "gitBranch"
)

// Keys returns the documented vocabulary of recognized keys.
func Keys() []string {
	return []string{
		KeyTarget,
		KeyTargetGroup,
		KeySubTarget,
		KeyBundleID,
		KeyOutputFolder,
		KeyOutputFile,
		KeyBuildNumber,
		KeyScriptingBackend,
		KeyDevelopment,
		KeyProfiler,
		KeyDebug,
		KeyEnvironment,
		KeyProductName,
		KeyBundleVersion,
		KeyGitBranch,
	}
}

// Provider is a typed key/value lookup.
type Provider interface {
	Contains(key string) bool
	String(key string) (string, bool)
	Int(key string) (int, bool)
	Bool(key string) (bool, bool)
	Set(key, value string)
}

// Enum reads key and matches it case-insensitively against allowed. The
// canonical spelling from allowed is returned.
func Enum[T ~string](p Provider, key string, allowed ...T) (T, bool) {
	var zero T
	raw, ok := p.String(key)
	if !ok {
		return zero, false
	}
	raw = strings.TrimSpace(raw)
	for _, candidate := range allowed {
		if strings.EqualFold(string(candidate), raw) {
			return candidate, true
		}
	}
	return zero, false
}

func parseInt(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseBool treats an empty value as true so bare flags such as
// "-development" read as enabled.
func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
