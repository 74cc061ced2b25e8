package version

import (
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuildVars(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	oldVersion, oldCommit, oldTime := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, buildTime
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = oldVersion, oldCommit, oldTime
	})
}

func TestGetFromLdflags(t *testing.T) {
	withBuildVars(t, "v1.2.3", "0123456789abcdef", "2024-05-01T12:00:00Z")

	info := Get()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), info.BuildTime)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.True(t, info.Release)
	assert.True(t, strings.HasPrefix(info.Short(), "v1.2.3 (0123456)"))
}

func TestShort(t *testing.T) {
	testCases := []struct {
		name     string
		info     BuildInfo
		expected string
	}{
		{"unknown commit", BuildInfo{Version: "dev", GitCommit: "unknown"}, "dev"},
		{"short commit", BuildInfo{Version: "v1", GitCommit: "abc"}, "v1"},
		{"commit", BuildInfo{Version: "v1", GitCommit: "abcdef012"}, "v1 (abcdef0)"},
		{"dirty", BuildInfo{Version: "v1", GitCommit: "abcdef012", Dirty: true}, "v1 (abcdef0) (dirty)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.info.Short())
		})
	}
}

func TestDetailed(t *testing.T) {
	info := BuildInfo{
		Version:   "v2.0.0",
		GitCommit: "unknown",
		GoVersion: "go1.24",
		Platform:  "linux/amd64",
		Release:   true,
	}

	assert.Equal(t, "Version: v2.0.0\nGo: go1.24\nPlatform: linux/amd64\nBuild type: release", info.Detailed())
}

func TestModuleVersion(t *testing.T) {
	assert.Equal(t, "v0.3.0", moduleVersion(map[string]string{"main.version": "v0.3.0"}))
	assert.Equal(t, "dev-0123456", moduleVersion(map[string]string{"main.version": "(devel)", "vcs.revision": "0123456789"}))
	assert.Equal(t, "dev", moduleVersion(map[string]string{}))
}

func TestParseTime(t *testing.T) {
	assert.False(t, parseTime("2024-05-01T12:00:00Z").IsZero())
	assert.False(t, parseTime("2024-05-01T12:00:00").IsZero())
	assert.False(t, parseTime("2024-05-01 12:00:00").IsZero())
	assert.True(t, parseTime("unknown").IsZero())
	assert.True(t, parseTime("").IsZero())
}
