package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"debugdeck/internal/kvstore"
)

func newDBCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Read and write the key-value store",
		Long: `Script the key-value store shown by the Database panel. Paths are
slash separated, e.g. user/alice/name. A running debugdeck picks up
changes made here within its poll interval.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get [path]",
			Short: "Show a value or list a folder",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := ""
				if len(args) == 1 {
					path = args[0]
				}
				return withStore(cmd, g, func(ctx context.Context, s *kvstore.Store) error {
					snap, err := s.Get(ctx, path)
					if err != nil {
						return err
					}
					printSnapshot(cmd.OutOrStdout(), snap)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <path> <value>",
			Short: "Store a value, replacing anything at the path",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, g, func(ctx context.Context, s *kvstore.Store) error {
					if err := s.Set(ctx, args[0], args[1]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("set"), args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "push <parent> <value>",
			Short: "Store a value under a generated, time-ordered key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, g, func(ctx context.Context, s *kvstore.Store) error {
					key, err := s.Push(ctx, args[0], args[1])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("pushed"), kvstore.Join(args[0], key))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:     "rm <path>",
			Aliases: []string{"remove"},
			Short:   "Remove a value or a whole folder",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, g, func(ctx context.Context, s *kvstore.Store) error {
					if err := s.Remove(ctx, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.RedString("removed"), args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

func withStore(cmd *cobra.Command, g *globalFlags, fn func(context.Context, *kvstore.Store) error) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := kvstore.Open(ctx, cfg.Database.Path, kvstore.Options{})
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func printSnapshot(w io.Writer, snap kvstore.Snapshot) {
	switch {
	case !snap.Exists:
		fmt.Fprintln(w, color.YellowString("(empty)"))
	case snap.Leaf:
		fmt.Fprintln(w, snap.Value)
	default:
		for _, c := range snap.Children {
			if c.Folder {
				fmt.Fprintf(w, "%s (%d)\n", color.CyanString(c.Key+"/"), c.Count)
				continue
			}
			fmt.Fprintf(w, "%s = %s\n", c.Key, c.Value)
		}
	}
}
