package config

import "fmt"

// Build metadata, injected with
// -ldflags "-X github.com/bobmcallan/argentis/internal/config.Version=...".
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	GitCommit string `json:"git_commit"`
}

// String formats the info as "version (build: ..., commit: ...)".
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", b.Version, b.Build, b.GitCommit)
}

// GetBuildInfo returns the injected build metadata.
func GetBuildInfo() BuildInfo {
	return BuildInfo{Version: Version, Build: Build, GitCommit: GitCommit}
}

// GetVersion returns the release version shown in the page footer and the MCP server info.
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version line printed by -version.
func GetFullVersion() string {
	return GetBuildInfo().String()
}
