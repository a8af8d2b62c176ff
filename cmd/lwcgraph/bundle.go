package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lwcgraph/internal/analyzer"
	"lwcgraph/internal/bundle"
	"lwcgraph/internal/driver"
	"lwcgraph/internal/processor"
	"lwcgraph/internal/source"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle [flags] <file>",
	Short: "Show the bundle a file belongs to",
	Long: `Bundle runs the pre-processing step on one file and prints the component
bundle it assembled: every member, the primary file, the bundle key and the
virtual file name rules are evaluated against.`,
	Args: cobra.ExactArgs(1),
	RunE: runBundle,
}

func init() {
	bundleCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	bundleCmd.Flags().Bool("request", false, "print the analyzer request for the bundle instead")
}

type memberInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Primary bool   `json:"primary"`
	Hash    string `json:"hash"`
	Size    int    `json:"size"`
}

type bundleInfo struct {
	File        string       `json:"file"`
	BaseName    string       `json:"base_name"`
	Key         string       `json:"key"`
	VirtualFile string       `json:"virtual_file"`
	Type        string       `json:"type"`
	Members     []memberInfo `json:"members"`
}

func runBundle(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	showRequest, err := cmd.Flags().GetBool("request")
	if err != nil {
		return fmt.Errorf("failed to get request flag: %w", err)
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	proc := processor.New(processor.Options{
		FS:         source.OSProvider{},
		Extensions: e.cfg.Extensions,
		Logger:     e.log,
	})
	blocks, err := proc.Preprocess(string(data), path)
	if err != nil {
		return err
	}
	defer proc.Postprocess(nil, path)
	b := proc.Bundle()
	if len(blocks) == 0 || b == nil {
		return fmt.Errorf("%s: no bundle could be registered", path)
	}

	out := cmd.OutOrStdout()
	if showRequest {
		req := analyzer.NewRequest(e.cfg.Namespace, b)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(req)
	}

	info := describeBundle(path, blocks[0], b, e.cfg.Namespace)
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	renderBundlePretty(out, info, e.useColor)
	return nil
}

func describeBundle(path string, block processor.Block, b *bundle.Bundle, namespace string) bundleInfo {
	info := bundleInfo{
		File:        path,
		BaseName:    b.BaseName(),
		Key:         block.Filename,
		VirtualFile: driver.VirtualFilename(path, 0, block.Filename),
		Type:        analyzer.NewRequest(namespace, b).Type,
	}
	for _, f := range b.Files() {
		info.Members = append(info.Members, memberInfo{
			Name:    f.Name,
			Kind:    f.Kind.String(),
			Primary: f.IsPrimary(),
			Hash:    f.Hash().Short(),
			Size:    len(f.Content),
		})
	}
	return info
}

func renderBundlePretty(out io.Writer, info bundleInfo, useColor bool) {
	primary := color.New(color.FgGreen, color.Bold)
	faint := color.New(color.Faint)
	for _, c := range []*color.Color{primary, faint} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	fmt.Fprintf(out, "%s (%s, %d files)\n", info.BaseName, info.Type, len(info.Members))
	for _, m := range info.Members {
		marker := " "
		name := m.Name
		if m.Primary {
			marker = "*"
			name = primary.Sprint(name)
		}
		fmt.Fprintf(out, "  %s %-8s %s %s\n", marker, m.Kind, name, faint.Sprintf("%s %dB", m.Hash, m.Size))
	}
	fmt.Fprintf(out, "key:     %s\n", info.Key)
	fmt.Fprintf(out, "virtual: %s\n", info.VirtualFile)
}
