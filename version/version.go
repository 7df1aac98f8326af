// Package version reports build information for actionbuilder, read from the VCS and module metadata Go embeds in
// the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Release metadata. These may be set via ldflags, otherwise they are filled from debug.ReadBuildInfo.
var (
	Version       = "0.1.0"
	GitCommit     = ""
	GitCommitTime = ""
	GitTreeDirty  = ""
)

// goEthereumModule is the module whose version is reported alongside the build, as it provides the address and hex
// handling of the codec.
const goEthereumModule = "github.com/ethereum/go-ethereum"

// Info describes a build.
type Info struct {
	Version           string `json:"version"`
	GitCommit         string `json:"gitCommit,omitempty"`
	GitCommitTime     string `json:"gitCommitTime,omitempty"`
	GitTreeDirty      bool   `json:"gitTreeDirty"`
	GoVersion         string `json:"goVersion"`
	ModulePath        string `json:"modulePath,omitempty"`
	GoEthereumVersion string `json:"goEthereumVersion,omitempty"`
}

// buildInfo is the module metadata of the running binary, if available.
var buildInfo, hasBuildInfo = debug.ReadBuildInfo()

func init() {
	if !hasBuildInfo {
		return
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if GitCommit == "" {
				GitCommit = setting.Value
			}
		case "vcs.time":
			if GitCommitTime == "" {
				GitCommitTime = setting.Value
			}
		case "vcs.modified":
			if GitTreeDirty == "" {
				GitTreeDirty = setting.Value
			}
		}
	}
}

// GetInfo returns the build information of the running binary.
func GetInfo() Info {
	info := Info{
		Version:       Version,
		GitCommit:     GitCommit,
		GitCommitTime: GitCommitTime,
		GitTreeDirty:  GitTreeDirty == "true",
		GoVersion:     runtime.Version(),
	}
	if hasBuildInfo {
		info.ModulePath = buildInfo.Main.Path
		for _, dep := range buildInfo.Deps {
			if dep.Path == goEthereumModule {
				info.GoEthereumVersion = dep.Version
			}
		}
	}
	return info
}

// ShortCommit returns the abbreviated commit hash, with a -dirty suffix for modified trees.
func (i Info) ShortCommit() string {
	commit := i.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit != "" && i.GitTreeDirty {
		commit += "-dirty"
	}
	return commit
}

// FormattedTime returns the commit time in a human-readable format.
func (i Info) FormattedTime() string {
	if i.GitCommitTime == "" {
		return "unknown"
	}
	t, err := time.Parse(time.RFC3339, i.GitCommitTime)
	if err != nil {
		return i.GitCommitTime
	}
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}

// String returns a multi-line description of the build.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "actionbuilder %s\n", i.Version)
	if commit := i.ShortCommit(); commit != "" {
		fmt.Fprintf(&sb, "  commit:        %s (%s)\n", commit, i.FormattedTime())
	}
	if i.GoEthereumVersion != "" {
		fmt.Fprintf(&sb, "  go-ethereum:   %s\n", i.GoEthereumVersion)
	}
	fmt.Fprintf(&sb, "  go:            %s\n", i.GoVersion)
	return sb.String()
}

// Short returns a single-line version string suitable for --version output.
func (i Info) Short() string {
	if commit := i.ShortCommit(); commit != "" {
		return i.Version + "+" + commit
	}
	return i.Version
}
