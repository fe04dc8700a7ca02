// Package version holds the pipesctl build version, set at link time:
//
//	go build -ldflags "-X github.com/rshade/pipesctl/pkg/version.version=v1.2.3"
package version

import (
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// devVersion is reported by builds that did not set a version.
const devVersion = "0.0.0-dev"

//nolint:gochecknoglobals // Set via -ldflags.
var (
	version   = devVersion
	gitCommit = ""
	buildDate = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"   yaml:"version"`
	GitCommit string `json:"gitCommit,omitempty" yaml:"gitCommit,omitempty"`
	BuildDate string `json:"buildDate,omitempty" yaml:"buildDate,omitempty"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform"  yaml:"platform"`
}

// GetVersion returns the build version normalized to semantic version form
// without a leading "v". A version that does not parse is returned as set.
func GetVersion() string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return version
	}
	return v.String()
}

// IsRelease reports whether the build carries a release version: a valid
// semantic version without a prerelease suffix.
func IsRelease() bool {
	v, err := semver.NewVersion(version)
	return err == nil && v.Prerelease() == ""
}

// Get returns the full build information.
func Get() Info {
	return Info{
		Version:   GetVersion(),
		GitCommit: gitCommit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
