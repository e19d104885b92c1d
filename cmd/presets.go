package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/rangepick/internal/config"
	"github.com/marcus/rangepick/internal/dateformat"
	"github.com/marcus/rangepick/internal/output"
	"github.com/marcus/rangepick/internal/presets"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [query]",
	Short: "List named ranges, optionally fuzzy-filtered",
	Long: `List the built-in presets and those defined in .rangepick/presets.toml.

  [[preset]]
  name = "sprint"
  description = "Current two-week sprint"
  start = "monday"
  end = "+13d"

The last preset applied in the picker is marked with a dot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		cfg, err := config.Load(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		set, err := presets.Load(baseDir, cfg.WeekStartDay())
		if err != nil {
			output.Error("%v", err)
			return err
		}

		var query string
		if len(args) == 1 {
			query = args[0]
		}
		matches := set.Find(query)

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(presetsJSON(matches))
		}
		if len(matches) == 0 {
			fmt.Printf("No presets match %q\n", query)
			return nil
		}

		if query != "" {
			nodes := presetNodes(matches, cfg.LastPreset)
			fmt.Println(strings.Join(output.RenderList(nodes), "\n"))
			return nil
		}
		fmt.Println(output.RenderTree(presetTree(matches, cfg.LastPreset), output.TreeRenderOptions{ShowDetail: true}))
		return nil
	},
}

// presetTree groups presets under their source.
func presetTree(list []presets.Preset, last string) output.TreeNode {
	var root output.TreeNode
	index := map[string]int{}
	for _, p := range list {
		src := string(p.Source)
		i, ok := index[src]
		if !ok {
			i = len(root.Children)
			index[src] = i
			root.Children = append(root.Children, output.TreeNode{ID: src})
		}
		root.Children[i].Children = append(root.Children[i].Children, presetNodes([]presets.Preset{p}, last)...)
	}
	return root
}

func presetNodes(list []presets.Preset, last string) []output.TreeNode {
	now := flagNow()
	nodes := make([]output.TreeNode, 0, len(list))
	for _, p := range list {
		node := output.TreeNode{ID: p.Name, Title: p.Description, Marked: p.Name == last}
		if start, end, err := p.Resolve(now); err == nil {
			node.Detail = dateformat.Format(start, dateformat.DatePattern) + ".." + dateformat.Format(end, dateformat.DatePattern)
		} else {
			node.Detail = err.Error()
		}
		nodes = append(nodes, node)
	}
	return nodes
}

type presetResult struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	Error       string `json:"error,omitempty"`
}

func presetsJSON(list []presets.Preset) []presetResult {
	now := flagNow()
	out := make([]presetResult, 0, len(list))
	for _, p := range list {
		r := presetResult{Name: p.Name, Description: p.Description, Source: string(p.Source)}
		if start, end, err := p.Resolve(now); err == nil {
			r.Start = dateformat.Format(start, dateformat.DatePattern)
			r.End = dateformat.Format(end, dateformat.DatePattern)
		} else {
			r.Error = err.Error()
		}
		out = append(out, r)
	}
	return out
}

func init() {
	rootCmd.AddCommand(presetsCmd)

	presetsCmd.Flags().Bool("json", false, "JSON output")
}
