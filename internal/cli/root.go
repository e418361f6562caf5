package cli

import (
	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/todo-tasks/internal/service"
)

// App carries what every subcommand needs. Main builds it once from config.
type App struct {
	Service *service.TaskService
	Locale  string
}

// NewRootCmd returns the taskctl command tree bound to app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskctl",
		Short: "Manage a personal task list",
		Long: `taskctl adds, edits, completes and removes tasks.

Tasks are stored through the backend selected by STORAGE_BACKEND
(memory, bolt, redis or postgres), the same store the HTTP API uses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAddCmd(app),
		newListCmd(app),
		newEditCmd(app),
		newDoneCmd(app),
		newRmCmd(app),
		newStatsCmd(app),
	)
	return root
}
