package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

func newListCmd(a *app) *cobra.Command {
	var (
		kind   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries of a kind, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := portfolio.ParseKind(kind)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			entries, err := svc.List(cmd.Context(), k)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintf(out, "No %s entries in %s\n", k, svc.CollectionPath(k))
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tTAGS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Title, portfolio.JoinTags(e.Tags))
			}
			return tw.Flush()
		},
	}

	kindFlag(cmd, &kind)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var req portfolio.SaveEntryRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace an entry",
		Long: `Add an entry to the front of its collection. An existing entry whose id
matches the new title's slug (or --original-id) is replaced.

The body defaults to the summary when --content is not given.`,
		Example: `  portfolio add --title "My New Article" --summary "Short summary" \
    --tags "LLM,Transformers" --image images/my-new-article.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.Body) == "" {
				req.Body = req.About
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			result, err := svc.Save(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: %s\nUpdated file: %s\n", result.Kind, result.ID, result.File)
			return nil
		},
	}

	kindFlag(cmd, &req.Kind)
	cmd.Flags().StringVar(&req.Title, "title", "", "entry title (required)")
	cmd.Flags().StringVar(&req.About, "summary", "", "short summary (required)")
	cmd.Flags().StringVar(&req.Tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&req.Category, "category", "", "article category (default Technical)")
	cmd.Flags().StringVar(&req.Link, "link", "", "external link (default #)")
	cmd.Flags().StringVar(&req.ImagePath, "image", "", "thumbnail path, e.g. images/cover.jpg")
	cmd.Flags().StringVar(&req.ImageAlt, "image-alt", "", "thumbnail alt text")
	cmd.Flags().StringVar(&req.Body, "content", "", "full body text")
	cmd.Flags().StringVar(&req.OriginalID, "original-id", "", "id of the entry being renamed")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("summary")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			result, err := svc.Delete(cmd.Context(), portfolio.DeleteEntryRequest{Kind: kind, ID: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\nUpdated file: %s\n", result.Kind, result.ID, result.File)
			return nil
		},
	}

	kindFlag(cmd, &kind)
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var (
		kind  string
		raw   bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render an entry in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := portfolio.ParseKind(kind)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			entry, err := svc.Get(cmd.Context(), k, args[0])
			if err != nil {
				return err
			}

			doc := entryMarkdown(entry)
			out := cmd.OutOrStdout()
			if raw || !isTerminal(out) {
				_, err := fmt.Fprint(out, doc)
				return err
			}

			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return err
			}
			rendered, err := r.Render(doc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, strings.TrimRight(rendered, "\n")+"\n")
			return err
		},
	}

	kindFlag(cmd, &kind)
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling (implied when not a terminal)")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// entryMarkdown lays an entry out as a markdown document
func entryMarkdown(e *portfolio.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Title)
	fmt.Fprintf(&b, "_%s_\n\n", e.Summary)
	if len(e.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n\n", portfolio.JoinTags(e.Tags))
	}
	if e.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n\n", e.Category)
	}
	b.WriteString(e.Body)
	b.WriteString("\n")
	return b.String()
}

func newPublishCmd(a *app) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:     "publish",
		Aliases: []string{"deploy"},
		Short:   "Commit all changes under the root and push them",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			result, err := svc.Publish(cmd.Context(), portfolio.PublishRequest{Message: message})
			if err != nil {
				var pubErr *portfolio.PublishError
				if errors.As(err, &pubErr) && pubErr.Step != "" {
					return fmt.Errorf("git %s: %w", pubErr.Step, err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Message)
			if result.Details != "" {
				fmt.Fprintln(out, result.Details)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message (default \""+portfolio.DefaultCommitMessage+"\")")
	return cmd
}
