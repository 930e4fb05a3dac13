package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/codec"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/query"
	"github.com/sandeepkv93/tasklist/internal/store"
	"github.com/spf13/cobra"
)

func (a *app) addCmd() *cobra.Command {
	var (
		points   int
		estimate bool
		area     string
		done     bool
	)
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			opts := []store.AddOption{store.AsCompleted(done)}
			switch {
			case estimate:
				opts = append(opts, store.WithPoints(model.IntPtr(model.EstimatePoints(text))))
			case cmd.Flags().Changed("points"):
				opts = append(opts, store.WithPoints(model.IntPtr(points)))
			}
			if cmd.Flags().Changed("area") {
				opts = append(opts, store.WithArea(model.StringPtr(area)))
			}
			return a.withStore(cmd, func(ctx context.Context, s *session, out io.Writer) error {
				task, err := s.store.Add(ctx, text, opts...)
				if task.ID != "" {
					fmt.Fprintf(out, "added %s\n", task.ID)
				}
				return saveWarning(err)
			})
		},
	}
	cmd.Flags().IntVar(&points, "points", 0, "effort points")
	cmd.Flags().BoolVar(&estimate, "estimate", false, "estimate points from the text")
	cmd.Flags().StringVar(&area, "area", "", "area label")
	cmd.Flags().BoolVar(&done, "done", false, "add the task already completed")
	cmd.MarkFlagsMutuallyExclusive("points", "estimate")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var (
		search    string
		area      string
		minPoints int
		active    bool
		completed bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			crit := query.Criteria{Term: search}
			if cmd.Flags().Changed("area") {
				crit.Fields.AreaContains = model.StringPtr(area)
			}
			if cmd.Flags().Changed("min-points") {
				crit.Fields.MinPoints = model.IntPtr(minPoints)
			}
			return a.withStore(cmd, func(_ context.Context, s *session, out io.Writer) error {
				all := s.store.Tasks()
				shown := make([]model.Task, 0, len(all))
				for _, t := range query.Visible(all, crit) {
					if (active && t.Completed) || (completed && !t.Completed) {
						continue
					}
					shown = append(shown, t)
				}
				if asJSON {
					body, err := codec.Export(shown)
					if err != nil {
						return err
					}
					_, err = out.Write(body)
					return err
				}
				switch query.Classify(len(all), len(shown)) {
				case query.StateEmptyStore:
					fmt.Fprintln(out, "No tasks yet")
					return nil
				case query.StateNoMatches:
					fmt.Fprintln(out, "No tasks found")
					return nil
				}
				for _, t := range shown {
					fmt.Fprintln(out, formatRow(s.store.IndexOf(t.ID)+1, t, a.now()))
				}
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&search, "search", "", "case-insensitive text search")
	f.StringVar(&area, "area", "", "only tasks whose area contains this")
	f.IntVar(&minPoints, "min-points", 0, "only tasks with at least this many points")
	f.BoolVar(&active, "active", false, "only active tasks")
	f.BoolVar(&completed, "completed", false, "only completed tasks")
	f.BoolVar(&asJSON, "json", false, "print the tasks as a JSON array")
	cmd.MarkFlagsMutuallyExclusive("active", "completed")
	return cmd
}

func formatRow(pos int, t model.Task, now time.Time) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%3d. %s %s", pos, box, t.Text)
	if p, ok := t.PointsValue(); ok {
		fmt.Fprintf(&b, " (%d pts)", p)
	}
	if area := t.AreaValue(); area != "" {
		fmt.Fprintf(&b, " @%s", area)
	}
	fmt.Fprintf(&b, "  %s", t.ID)
	if age := t.AgeLabel(now); age != "" {
		fmt.Fprintf(&b, "  %s", age)
	}
	return b.String()
}

// resolve maps a 1-based position or an id to a task id.
func resolve(st *store.Store, target string) (string, error) {
	target = strings.TrimSpace(target)
	if pos, err := strconv.Atoi(target); err == nil {
		tasks := st.Tasks()
		if pos < 1 || pos > len(tasks) {
			return "", fmt.Errorf("no task at position %d", pos)
		}
		return tasks[pos-1].ID, nil
	}
	if _, ok := st.Get(target); !ok {
		return "", fmt.Errorf("no task with id %q", target)
	}
	return target, nil
}

func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id|position>",
		Aliases: []string{"done"},
		Short:   "Flip a task between active and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *session, out io.Writer) error {
				id, err := resolve(s.store, args[0])
				if err != nil {
					return err
				}
				_, err = s.store.Toggle(ctx, id)
				task, _ := s.store.Get(id)
				state := "active"
				if task.Completed {
					state = "completed"
				}
				fmt.Fprintf(out, "%s is now %s\n", id, state)
				return saveWarning(err)
			})
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id|position>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *session, out io.Writer) error {
				id, err := resolve(s.store, args[0])
				if err != nil {
					return err
				}
				_, err = s.store.Delete(ctx, id)
				fmt.Fprintf(out, "deleted %s\n", id)
				return saveWarning(err)
			})
		},
	}
}

func (a *app) mvCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "mv <from> <to>",
		Aliases: []string{"move"},
		Short:   "Move the task at position from so it ends up at position to",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, errFrom := strconv.Atoi(args[0])
			dest, errTo := strconv.Atoi(args[1])
			if errFrom != nil || errTo != nil {
				return errors.New("positions must be numbers")
			}
			return a.withStore(cmd, func(ctx context.Context, s *session, out io.Writer) error {
				n := s.store.Len()
				if from < 1 || from > n || dest < 1 || dest > n {
					return fmt.Errorf("positions must be between 1 and %d", n)
				}
				slot := dest - 1
				if dest > from {
					slot = dest
				}
				moved, err := s.store.Move(ctx, from-1, slot)
				if moved {
					fmt.Fprintf(out, "moved %d to %d\n", from, dest)
				}
				return saveWarning(err)
			})
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion and point totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *session, out io.Writer) error {
				agg := s.store.Aggregates()
				fmt.Fprintf(out, "completed: %d / %d\n", agg.CompletedCount, agg.TotalCount)
				fmt.Fprintf(out, "points:    %d / %d\n", agg.EarnedPoints, agg.TotalPoints)
				fmt.Fprintf(out, "progress:  %.0f%%\n", agg.ProgressFraction*100)
				at, ok, err := s.adapter.LastSaved(ctx)
				switch {
				case err != nil:
					s.logger.Warn("could not read save time", "err", err)
				case ok:
					fmt.Fprintf(out, "saved:     %s\n", model.TimeAgo(a.now(), at))
				default:
					fmt.Fprintln(out, "saved:     never")
				}
				return nil
			})
		},
	}
}
