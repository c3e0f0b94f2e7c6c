package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// releaseManifest mirrors versions.yaml at the repository root.
type releaseManifest struct {
	Project struct {
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

func newVersionCmd(st *cliState) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			info := loadBuildInfo(manifestCandidates())
			if format == OutputFormatText {
				fmt.Fprintf(st.stdout, VersionTextTemplate+FmtNewline,
					info.Version, info.Commit, info.Branch, info.BuildTime, info.GoVersion)
				return nil
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return runtimeError(ErrMsgRenderFailed, err)
			}
			fmt.Fprintln(st.stdout, string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "Output format: text or json")
	return cmd
}

// manifestCandidates covers running from the repository root and from
// cmd/promptcraft.
func manifestCandidates() []string {
	dirs := []string{".", "..", filepath.Join("..", "..")}
	out := make([]string, len(dirs))
	for i, d := range dirs {
		out[i] = filepath.Join(d, VersionsFile)
	}
	return out
}

// loadBuildInfo starts from the binary's embedded module version and lets the
// first readable manifest in candidates override what it sets.
func loadBuildInfo(candidates []string) buildInfo {
	info := buildInfo{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
	}

	for _, path := range candidates {
		m, ok := readManifest(path)
		if !ok {
			continue
		}
		setIfPresent(&info.Version, m.Project.Version)
		setIfPresent(&info.Commit, m.Git.Commit)
		setIfPresent(&info.Branch, m.Git.Branch)
		setIfPresent(&info.BuildTime, m.Build.Time)
		setIfPresent(&info.GoVersion, m.Build.GoVersion)
		break
	}
	return info
}

func readManifest(path string) (releaseManifest, bool) {
	var m releaseManifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, false
	}
	if yaml.Unmarshal(data, &m) != nil {
		return m, false
	}
	return m, true
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
