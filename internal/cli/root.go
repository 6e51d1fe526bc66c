// Package cli wires the xsearch command-line surface: the root command
// runs one search and prints the table, the serve subcommand exposes the
// same pipeline over HTTP.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sgoodwin/xsearch/internal/config"
	"github.com/sgoodwin/xsearch/internal/extract"
	"github.com/sgoodwin/xsearch/internal/report"
	"github.com/sgoodwin/xsearch/internal/walker"
	"github.com/sgoodwin/xsearch/internal/xmldoc"
)

// Execute runs the root command and returns the process exit code. The
// table owns stdout; logs go to stderr.
func Execute() int {
	level := new(slog.LevelVar)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := newRootCmd(log, level).Execute(); err != nil {
		log.Error("run failed", "error", err)
		return 1
	}
	return 0
}

type searchOptions struct {
	dir     string
	idXPath string
	attrib  bool
	text    bool
	tail    bool
	tag     bool
	parent  string
	padding int
	expand  bool
	verbose bool
}

func newRootCmd(log *slog.Logger, level *slog.LevelVar) *cobra.Command {
	cfg := config.Load()
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "xsearch [flags] filter_xpath [results_xpath...]",
		Short: "Search a directory of XML files with XPath and print matching fields",
		Long: `xsearch walks a directory tree, evaluates an XPath filter against every
.xml file, optionally climbs to a named ancestor of each match, and
prints the requested fields of elements matched by the results
expressions as an aligned table.

Example:
  xsearch -d records -x -g -p marc:record '//marc:controlfield[@tag="001"]' 'marc:datafield'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				level.Set(slog.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.OutOrStdout(), log, opts, args[0], args[1:])
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&opts.dir, "dir", "d", cfg.Dir, "starting directory for the recursive scan")
	fl.StringVarP(&opts.idXPath, "id", "i", "", "xpath to an id value, evaluated once per parent")
	fl.BoolVarP(&opts.attrib, "attrib", "a", false, "include element attributes")
	fl.BoolVarP(&opts.text, "text", "x", false, "include element text")
	fl.BoolVarP(&opts.tail, "tail", "l", false, "include element tail text")
	fl.BoolVarP(&opts.tag, "tag", "g", false, "include element tag")
	fl.StringVarP(&opts.parent, "parent", "p", "", "ancestor tag (prefix:localname) to climb to")
	fl.IntVar(&opts.padding, "padding", cfg.Padding, "column padding for the output table")
	fl.BoolVar(&opts.expand, "expand", false, "one row per matched element instead of one per results xpath")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newServeCmd(log, cfg))
	return cmd
}

func runSearch(w io.Writer, log *slog.Logger, opts *searchOptions, filterXPath string, resultsXPaths []string) error {
	corpus, stats, err := walker.Walk(opts.dir, filterXPath, log)
	if err != nil {
		return err
	}
	log.Debug("scan complete",
		"files_scanned", stats.FilesScanned,
		"files_loaded", stats.FilesLoaded,
		"elements", stats.Elements,
	)

	parentTag := ""
	if opts.parent != "" {
		parentTag, err = xmldoc.ExpandQName(opts.parent, corpus.Namespaces)
		if err != nil {
			return err
		}
	}

	parents := extract.ResolveParents(corpus.Elements, parentTag)
	records, err := extract.Extract(parents, extract.Options{
		ID:     opts.idXPath,
		Tag:    opts.tag,
		Attrib: opts.attrib,
		Text:   opts.text,
		Tail:   opts.tail,
		Expand: opts.expand,
	}, resultsXPaths, corpus.Namespaces)
	if err != nil {
		return err
	}

	return report.Render(w, records, opts.padding)
}
