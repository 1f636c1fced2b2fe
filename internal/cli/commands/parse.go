package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/sqlmatch/internal/cli/output"
	"github.com/leapstack-labs/sqlmatch/pkg/parser"
	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Format  string // tree, yaml, json
	NonCode bool   // Keep whitespace and comments
	Stats   bool   // Print matcher statistics
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [path|-]",
		Short: "Print the parse tree of a SQL file",
		Long: `Parse SQL with the configured dialect and print the segment tree.

Unparsable regions appear as unparsable segments and make the command fail.`,
		Example: `  # Show the tree of a file
  sqlmatch parse query.sql

  # Parse stdin with the bigquery dialect as YAML
  echo "SELECT a FROM t" | sqlmatch parse -d bigquery --format yaml -

  # Include whitespace and comments
  sqlmatch parse --non-code query.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdinPath
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(cmd, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "tree", "Output format: tree, yaml, json")
	cmd.Flags().BoolVar(&opts.NonCode, "non-code", false, "Include whitespace and comments")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "Print matcher statistics to stderr")

	return cmd
}

// treeNode is the serialized form of a segment.
type treeNode struct {
	Type     string      `json:"type" yaml:"type"`
	Pos      string      `json:"pos" yaml:"pos"`
	Raw      string      `json:"raw,omitempty" yaml:"raw,omitempty"`
	Children []*treeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

func runParse(cmd *cobra.Command, path string, opts *ParseOptions) error {
	cmdCtx := NewCommandContext(cmd)
	d, err := cmdCtx.Dialect()
	if err != nil {
		return err
	}

	var content []byte
	if path == stdinPath {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	res := parser.Parse(string(content), d, parser.WithLogger(cmdCtx.Logger))
	tree := buildTree(res.File, opts.NonCode)

	w := cmd.OutOrStdout()
	switch strings.ToLower(opts.Format) {
	case "json":
		r := output.NewRenderer(w, cmd.ErrOrStderr(), output.ModeJSON)
		if err := r.JSON(tree); err != nil {
			return err
		}
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
	case "tree", "":
		writeTree(w, tree, 0)
	default:
		return fmt.Errorf("unknown parse format %q (want tree, yaml or json)", opts.Format)
	}

	if opts.Stats {
		s := res.Stats
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "attempts=%d pruned=%d cache_hits=%d cache_misses=%d depth_exceeded=%d\n",
			s.Attempts, s.Pruned, s.CacheHits, s.CacheMisses, s.DepthExceeded)
	}

	if res.HasErrors() {
		for _, e := range res.Errors {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
		}
		return fmt.Errorf("%d unparsable region(s)", len(res.Errors))
	}
	return nil
}

func buildTree(s *segment.Segment, nonCode bool) *treeNode {
	n := &treeNode{Type: s.Type(), Pos: s.Pos().String()}
	if s.IsRaw() {
		n.Raw = s.Raw()
		return n
	}
	for _, c := range s.Children() {
		if !nonCode && !c.IsCode() && c.IsRaw() {
			continue
		}
		n.Children = append(n.Children, buildTree(c, nonCode))
	}
	return n
}

func writeTree(w io.Writer, n *treeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Raw != "" || n.Children == nil {
		_, _ = fmt.Fprintf(w, "%-8s%s%s: %q\n", n.Pos, indent, n.Type, n.Raw)
		return
	}
	_, _ = fmt.Fprintf(w, "%-8s%s%s:\n", n.Pos, indent, n.Type)
	for _, c := range n.Children {
		writeTree(w, c, depth+1)
	}
}
