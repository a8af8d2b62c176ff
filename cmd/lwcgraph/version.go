package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lwcgraph/internal/version"
)

// buildInfo is the version payload; empty build fields are omitted from json.
type buildInfo struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Plugin    string `json:"plugin"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show lwcgraph build information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "include every recorded build field")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	var show [3]bool // hash, date, full
	for i, name := range []string{"hash", "date", "full"} {
		if show[i], err = flags.GetBool(name); err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	info := currentBuild(show[0] || show[2], show[1] || show[2])
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		return writeVersionJSON(out, info)
	case "pretty":
		useColor := colorFlag == "on" || (colorFlag == "auto" && !color.NoColor)
		writeVersionPretty(out, info, useColor)
		return nil
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

// currentBuild reads the version package; requested build fields that were
// not stamped at link time read "unknown".
func currentBuild(withHash, withDate bool) buildInfo {
	info := buildInfo{
		Tool:    "lwcgraph",
		Version: orDefault(version.Version, "dev"),
		Plugin:  pluginName,
	}
	if withHash {
		info.GitCommit = orDefault(version.GitCommit, "unknown")
	}
	if withDate {
		info.BuildDate = orDefault(version.BuildDate, "unknown")
	}
	return info
}

func writeVersionPretty(out io.Writer, info buildInfo, useColor bool) {
	v := info.Version
	if useColor && v == version.Version {
		v = version.Colored()
	}
	fmt.Fprintf(out, "%s %s (%s)\n", info.Tool, v, info.Plugin)
	if info.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
	}
}

func writeVersionJSON(out io.Writer, info buildInfo) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
