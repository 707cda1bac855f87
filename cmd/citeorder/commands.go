package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/citeorder/catalog"
	"github.com/arthur-debert/citeorder/document"
	"github.com/arthur-debert/citeorder/formats"
	"github.com/arthur-debert/citeorder/internal/script"
	"github.com/arthur-debert/citeorder/internal/validation"
	"github.com/arthur-debert/citeorder/search"
)

func (cli *CLI) addApplyCommand() {
	cmd := &cobra.Command{
		Use:   "apply SCRIPT",
		Short: "Run a YAML edit script against the document",
		Long: `Run a YAML edit script against the document and save the result.
The document is created when the snapshot does not exist. Use "-" to read the
script from stdin.

Operations: insert-text, insert-marker, delete, move, cursor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runApply(cmd, args[0])
		},
	}
	cmd.Flags().BoolP(keyDryRun, "n", false, "Show the resulting order without saving")
	cli.rootCmd.AddCommand(cmd)
}

func (cli *CLI) runApply(cmd *cobra.Command, path string) error {
	sc, err := readScript(cmd, path)
	if err != nil {
		return newCLIError("read script", err, "Check the script against 'citeorder apply --help'")
	}

	s, err := openSession(cli.viperInst)
	if err != nil {
		return err
	}
	defer s.close()

	if err := script.NewRunner(s.doc, s.ctl, nil).Run(sc); err != nil {
		return newCLIError("apply script", err)
	}
	if len(s.errs) > 0 {
		return newCLIError("apply script", errors.Join(s.errs...))
	}

	printOrder(cmd.OutOrStdout(), s)
	if cli.viperInst.GetBool(keyDryRun) {
		return nil
	}
	return s.save()
}

func readScript(cmd *cobra.Command, path string) (*script.Script, error) {
	if path == "-" {
		return script.Parse(cmd.InOrStdin())
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return script.Parse(fh)
}

func (cli *CLI) addListCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cited sources in citation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cli.viperInst)
			if err != nil {
				return err
			}
			defer s.close()
			printOrder(cmd.OutOrStdout(), s)
			return nil
		},
	})
}

// printOrder writes one "number key occurrences" line per source
func printOrder(w io.Writer, s *session) {
	for i := 0; i < s.ctl.Len(); i++ {
		src, err := s.ctl.SourceAt(i)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, src.Key(), src.Len())
	}
}

func (cli *CLI) addShowCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the document with citation numbers in place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cli.viperInst)
			if err != nil {
				return err
			}
			defer s.close()
			fmt.Fprintln(cmd.OutOrStdout(), s.doc.Render(func(m *document.Marker) string {
				return "[" + m.Label() + "]"
			}))
			return nil
		},
	})
}

func (cli *CLI) addBibCommand() {
	cmd := &cobra.Command{
		Use:   "bib",
		Short: "Print the bibliography in citation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runBib(cmd)
		},
	}
	cmd.Flags().StringP(keyCatalog, "c", "", "YAML catalog of sources")
	cmd.Flags().StringP(keyFormat, "f", formats.Markdown.Name, "Bibliography format")
	cli.rootCmd.AddCommand(cmd)
}

func (cli *CLI) runBib(cmd *cobra.Command) error {
	format, err := formats.Get(cli.viperInst.GetString(keyFormat))
	if err != nil {
		return newCLIError("render bibliography", err, "Run 'citeorder formats' to list formats")
	}

	var cat *catalog.Catalog
	if path := cli.viperInst.GetString(keyCatalog); path != "" {
		if cat, err = catalog.LoadFile(path); err != nil {
			return newCLIError("load catalog", err)
		}
		if err := validation.ValidateCatalog(cat); err != nil {
			return newCLIError("load catalog", err)
		}
	}

	s, err := openSession(cli.viperInst)
	if err != nil {
		return err
	}
	defer s.close()

	fmt.Fprint(cmd.OutOrStdout(), format.Render(formats.Entries(s.ctl.Registry(), cat)))
	return nil
}

func (cli *CLI) addFormatsCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "formats",
		Short: "List bibliography formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range formats.List() {
				f, err := formats.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.Name, f.Extension)
			}
			return nil
		},
	})
}

func (cli *CLI) addSearchCommand() {
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find catalog sources to cite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runSearch(cmd, args[0])
		},
	}
	cmd.Flags().StringP(keyCatalog, "c", "", "YAML catalog of sources")
	cmd.Flags().IntP(keyLimit, "l", 10, "Maximum number of results")
	cli.rootCmd.AddCommand(cmd)
}

func (cli *CLI) runSearch(cmd *cobra.Command, query string) error {
	path := cli.viperInst.GetString(keyCatalog)
	if path == "" {
		return newConfigError("search", "no catalog", "Pass --catalog FILE", "Set CITEORDER_CATALOG")
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return newCLIError("load catalog", err)
	}

	limit := cli.viperInst.GetInt(keyLimit)
	results, err := search.SearchCatalog(cat, search.SearchOptions{
		Query:           query,
		EnableHighlight: true,
		MaxResults:      &limit,
	})
	if err != nil {
		return newCLIError("search", err)
	}

	for _, r := range results {
		title := r.Source.Title
		if hl, ok := r.Highlights[search.FieldTitle]; ok {
			title = hl
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.Source.ID, r.Source.Author, title)
	}
	return nil
}
