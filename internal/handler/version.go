package handler

import (
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"sync"
)

// VersionInfo identifies the running build and the claim signer it uses
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
	Signer    string `json:"signer,omitempty"`
}

// Set with -ldflags "-X github.com/Cleo-11/OceanX/internal/handler.Version=..."
var (
	Version   = ""
	BuildTime = ""
	GitCommit = ""
)

var buildInfo = sync.OnceValue(func() VersionInfo {
	info := VersionInfo{
		Version:   firstNonEmpty(Version, os.Getenv("VERSION"), "dev"),
		GoVersion: runtime.Version(),
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.GitCommit = firstNonEmpty(info.GitCommit, s.Value)
		case "vcs.time":
			info.BuildTime = firstNonEmpty(info.BuildTime, s.Value)
		}
	}
	return info
})

// HandleVersion reports the deployed build. signer may be empty.
//
// @Summary Build information
// @Tags health
// @Produce json
// @Success 200 {object} VersionInfo
// @Router /version [get]
func HandleVersion(signer string) http.HandlerFunc {
	info := buildInfo()
	info.Signer = signer
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, info)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
