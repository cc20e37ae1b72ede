package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fatou/pkg/archive"
)

// historyCommand creates the history command group.
func (c *CLI) historyCommand() *cobra.Command {
	var mongoURI, mongoDB string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse archived render runs",
		Long: `Browse archived render runs.

History reads the durable archive, so every subcommand needs --mongo or
the FATOU_MONGO_URI environment variable. Runs land in the archive when
rendered through a server backed by the same store.`,
	}

	cmd.PersistentFlags().StringVar(&mongoURI, "mongo", os.Getenv("FATOU_MONGO_URI"), "MongoDB URI of the archive")
	cmd.PersistentFlags().StringVar(&mongoDB, "mongo-db", archive.DefaultDatabase, "MongoDB database name")

	cmd.AddCommand(c.historyListCommand(&mongoURI, &mongoDB))
	cmd.AddCommand(c.historyShowCommand(&mongoURI, &mongoDB))
	cmd.AddCommand(c.historyImageCommand(&mongoURI, &mongoDB))
	cmd.AddCommand(c.historyDeleteCommand(&mongoURI, &mongoDB))

	return cmd
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand(mongoURI, mongoDB *string) *cobra.Command {
	var (
		familyFilter string
		limit        int
		sinceStr     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openArchive(ctx, *mongoURI, *mongoDB)
			if err != nil {
				return err
			}
			defer closeArchive(store)

			listOpts := archive.ListOptions{Family: familyFilter, Limit: limit}
			if sinceStr != "" {
				since, err := time.Parse(time.RFC3339, sinceStr)
				if err != nil {
					return fmt.Errorf("--since: want RFC 3339, got %q", sinceStr)
				}
				listOpts.Since = since
			}

			entries, err := store.List(ctx, listOpts)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No archived runs")
				return nil
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					shortID(e.ID),
					e.Family,
					strconv.Itoa(e.Stats.Pixels),
					strings.Join(e.Formats, ","),
					formatRelativeTime(e.CreatedAt),
				}
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("ID", "Family", "Pixels", "Formats", "When").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 0 || col == 4 {
						return lipgloss.NewStyle().Foreground(colorDim)
					}
					return lipgloss.NewStyle()
				})
			fmt.Println(t.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&familyFilter, "family", "", "only runs of this family")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries (0 for all)")
	cmd.Flags().StringVar(&sinceStr, "since", "", "only runs at or after this RFC 3339 time")

	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand(mongoURI, mongoDB *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openArchive(ctx, *mongoURI, *mongoDB)
			if err != nil {
				return err
			}
			defer closeArchive(store)

			e, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			printSuccess("Run %s", e.ID)
			printKeyValue("family", e.Family)
			printKeyValue("created", e.CreatedAt.Local().Format("Jan 2, 2006 15:04"))
			printKeyValue("plane", shortID(e.PlaneHash))
			printKeyValue("formats", strings.Join(e.Formats, ", "))
			printKeyValue("pixels", strconv.Itoa(e.Stats.Pixels))
			printKeyValue("escaped", strconv.Itoa(e.Stats.Escaped))
			printKeyValue("periodic", strconv.Itoa(e.Stats.Periodic))
			printKeyValue("interior", strconv.Itoa(e.Stats.Interior))
			printKeyValue("compute", fmt.Sprintf("%dms", e.Stats.ComputeMS))

			if opts, err := e.DecodeOptions(); err == nil {
				printKeyValue("res", fmt.Sprintf("%dx%d", opts.ResX, opts.ResY))
				printKeyValue("iters", strconv.Itoa(opts.MaxIters))
				if opts.Param != 0 {
					printKeyValue("param", fmtC(opts.Param))
				}
				if opts.Mod != 0 {
					printKeyValue("mod", fmtC(opts.Mod))
				}
			}
			return nil
		},
	}
}

// historyImageCommand creates the "history image" subcommand.
func (c *CLI) historyImageCommand(mongoURI, mongoDB *string) *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "image <id>",
		Short: "Re-render an archived run's artifacts",
		Long: `Re-render an archived run's artifacts.

The archive stores options, not pixels. The options are replayed
through the local pipeline; with a warm cache this is a lookup, cold it
recomputes the plane.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openArchive(ctx, *mongoURI, *mongoDB)
			if err != nil {
				return err
			}
			defer closeArchive(store)

			e, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			opts, err := e.DecodeOptions()
			if err != nil {
				return err
			}
			opts.Logger = loggerFromContext(ctx)

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			sp := newSpinner(ctx, "Replaying "+shortID(e.ID))
			sp.Start()
			result, err := runner.Execute(ctx, opts)
			if err != nil {
				sp.StopWithError("Replay failed")
				return err
			}
			sp.Stop()

			if output == "" {
				output = "fatou-" + shortID(e.ID)
			}
			paths, err := writeArtifacts(output, result)
			if err != nil {
				return err
			}

			if result.PlaneHash != e.PlaneHash {
				printWarning("plane hash changed: archived %s, replay %s",
					shortID(e.PlaneHash), shortID(result.PlaneHash))
			}
			printStats(result.Stats, result.CacheInfo.PlaneHit)
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path base (default: fatou-<id>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "recompute even when cached")

	return cmd
}

// historyDeleteCommand creates the "history delete" subcommand.
func (c *CLI) historyDeleteCommand(mongoURI, mongoDB *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Forget an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openArchive(ctx, *mongoURI, *mongoDB)
			if err != nil {
				return err
			}
			defer closeArchive(store)

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// openArchive connects to the MongoDB archive.
func openArchive(ctx context.Context, uri, db string) (archive.Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("history needs an archive: set --mongo or FATOU_MONGO_URI")
	}
	return archive.NewMongoStore(ctx, uri, db)
}

func closeArchive(store archive.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		printWarning("closing archive: %v", err)
	}
}

// shortID returns the first eight characters of an ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatRelativeTime renders a timestamp relative to now, falling back
// to the date for anything older than a week.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
