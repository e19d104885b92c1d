package output

import (
	"fmt"
	"strings"
)

// TreeNode represents a node in a tree structure for rendering
type TreeNode struct {
	ID       string
	Title    string
	Detail   string // e.g. the start and end expressions of a preset
	Marked   bool   // highlighted with a dot, e.g. the last used preset
	Children []TreeNode
}

// TreeRenderOptions configures tree rendering behavior
type TreeRenderOptions struct {
	MaxDepth    int  // 0 = unlimited
	ShowDetail  bool // Whether to append Detail
	Indentation int  // Base indentation level (for nested contexts)
}

const (
	branch = "\u251c\u2500\u2500 " // ├──
	last   = "\u2514\u2500\u2500 " // └──
	pipe   = "\u2502   "           // │
)

// RenderTree renders a tree starting from a single root node
// Returns the complete tree as a string (without the root - just children)
func RenderTree(root TreeNode, opts TreeRenderOptions) string {
	lines := renderTreeNodes(root.Children, opts, 0, strings.Repeat("  ", opts.Indentation))
	return strings.Join(lines, "\n")
}

// renderTreeNodes recursively renders tree nodes
func renderTreeNodes(nodes []TreeNode, opts TreeRenderOptions, depth int, prefix string) []string {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return nil
	}

	var lines []string

	for i, node := range nodes {
		isLast := i == len(nodes)-1

		connector := branch
		if isLast {
			connector = last
		}

		line := prefix + connector + formatNode(node, opts)
		lines = append(lines, line)

		childPrefix := prefix
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += pipe
		}

		childLines := renderTreeNodes(node.Children, opts, depth+1, childPrefix)
		lines = append(lines, childLines...)
	}

	return lines
}

func formatNode(node TreeNode, opts TreeRenderOptions) string {
	var parts []string
	if node.Title != "" {
		parts = append(parts, node.ID+":", node.Title)
	} else {
		parts = append(parts, node.ID)
	}
	if opts.ShowDetail && node.Detail != "" {
		parts = append(parts, fmt.Sprintf("(%s)", node.Detail))
	}
	s := strings.Join(parts, " ")
	if node.Marked {
		s += " \u25cf" // ●
	}
	return s
}

// RenderList renders nodes one level deep with a fixed two-space indent,
// for short listings inside other output.
func RenderList(nodes []TreeNode) []string {
	var lines []string

	for i, node := range nodes {
		connector := branch
		if i == len(nodes)-1 {
			connector = last
		}
		lines = append(lines, "  "+connector+formatNode(node, TreeRenderOptions{ShowDetail: true}))
	}

	return lines
}
