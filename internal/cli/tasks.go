package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/todo-tasks/internal/model"
	"github.com/BuzzLyutic/todo-tasks/internal/service"
)

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a pending task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := model.ValidateTitle(strings.Join(args, " "))
			if err != nil {
				return err
			}
			description, _ := cmd.Flags().GetString("description")
			priority, _ := cmd.Flags().GetString("priority")
			due, _ := cmd.Flags().GetString("due")
			tags, _ := cmd.Flags().GetStringSlice("tags")

			in := model.NewTask{
				Title:       title,
				Description: description,
				Tags:        model.CleanTags(tags),
			}
			if in.Priority, err = parsePriority(priority); err != nil {
				return err
			}
			if due != "" {
				d, err := model.ParseDate(due)
				if err != nil {
					return err
				}
				in.DueDate = &d
			}

			task := app.Service.Add(cmd.Context(), in)
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", task.ID)
			return nil
		},
	}
	cmd.Flags().StringP("description", "d", "", "Task description")
	cmd.Flags().StringP("priority", "p", "", "Priority: low, medium or high")
	cmd.Flags().String("due", "", "Due date as YYYY-MM-DD")
	cmd.Flags().StringSliceP("tags", "t", nil, "Comma separated tags")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			sortBy, _ := cmd.Flags().GetString("sort")
			query, _ := cmd.Flags().GetString("search")

			filter, ok := model.ParseFilter(status)
			if !ok {
				return fmt.Errorf("invalid status %q: must be all, pending or completed", status)
			}
			key, ok := model.ParseSortKey(sortBy)
			if !ok {
				return fmt.Errorf("invalid sort %q: must be createdAt, updatedAt, title or priority", sortBy)
			}

			tasks := service.View(app.Service.Tasks(), model.ViewOptions{
				Filter: filter,
				SortBy: key,
				Query:  query,
				Locale: app.Locale,
			})

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}
			for _, t := range tasks {
				printTask(out, t)
			}
			return nil
		},
	}
	cmd.Flags().StringP("status", "s", "all", "Filter: all, pending or completed")
	cmd.Flags().String("sort", "createdAt", "Sort: createdAt, updatedAt, title or priority")
	cmd.Flags().StringP("search", "q", "", "Case-insensitive text search")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit a task. Title and description keep their current values unless
given. --due sets the due date and --clear-due removes it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, ok := app.Service.Get(args[0])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}

			flags := cmd.Flags()
			title := current.Title
			if flags.Changed("title") {
				title, _ = flags.GetString("title")
			}
			title, err := model.ValidateTitle(title)
			if err != nil {
				return err
			}
			upd := model.TaskUpdate{Title: title, Description: current.Description}
			if flags.Changed("description") {
				upd.Description, _ = flags.GetString("description")
			}

			if flags.Changed("priority") {
				raw, _ := flags.GetString("priority")
				p, ok := model.ParsePriority(raw)
				if !ok {
					return model.ErrInvalidPriority
				}
				upd.Priority = model.SetTo(p)
			}

			clearDue, _ := flags.GetBool("clear-due")
			switch {
			case clearDue && flags.Changed("due"):
				return fmt.Errorf("--due and --clear-due cannot be combined")
			case clearDue:
				upd.DueDate = model.Cleared[time.Time]()
			case flags.Changed("due"):
				raw, _ := flags.GetString("due")
				d, err := model.ParseDate(raw)
				if err != nil {
					return err
				}
				upd.DueDate = model.SetTo(d)
			}

			if flags.Changed("tags") {
				tags, _ := flags.GetStringSlice("tags")
				upd.Tags = model.SetTo(model.CleanTags(tags))
			}

			task, ok := app.Service.Update(cmd.Context(), args[0], upd)
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", task.ID)
			return nil
		},
	}
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().StringP("description", "d", "", "New description, empty to clear")
	cmd.Flags().StringP("priority", "p", "", "Priority: low, medium or high")
	cmd.Flags().String("due", "", "Due date as YYYY-MM-DD")
	cmd.Flags().Bool("clear-due", false, "Remove the due date")
	cmd.Flags().StringSliceP("tags", "t", nil, "Replace tags, comma separated")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, ok := app.Service.Toggle(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", task.ID, task.Status)
			return nil
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, id := range args {
				if app.Service.Delete(cmd.Context(), id) {
					fmt.Fprintf(out, "deleted %s\n", id)
				} else {
					fmt.Fprintf(out, "task %s not found\n", id)
				}
			}
			return nil
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Service.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d  pending: %d  completed: %d\n", s.Total, s.Pending, s.Completed)
			return nil
		},
	}
}

func parsePriority(raw string) (model.Priority, error) {
	if raw == "" {
		return model.DefaultPriority, nil
	}
	p, ok := model.ParsePriority(raw)
	if !ok {
		return "", model.ErrInvalidPriority
	}
	return p, nil
}

func printTask(w io.Writer, t model.Task) {
	mark := " "
	if t.Status == model.StatusCompleted {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s  %s  (%s)", mark, t.ID, t.Title, t.Priority)
	if t.DueDate != nil && !t.DueDate.IsZero() {
		line += "  due " + t.DueDate.In(time.Local).Format(time.DateOnly)
	}
	for _, tag := range t.Tags {
		line += "  #" + tag
	}
	fmt.Fprintln(w, line)
	if t.Description != "" {
		fmt.Fprintf(w, "    %s\n", t.Description)
	}
}
