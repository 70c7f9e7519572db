package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/storage"
	"github.com/chris-regnier/devjournal/internal/ui"
)

var (
	forceDelete   bool
	deleteProject string
)

// confirm asks before destructive operations; tests replace it.
var confirm = ui.ConfirmDeletion

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a journal entry or a whole project",
	Long:  "Permanently delete one entry, or every entry of a project with --project. Requires confirmation unless --force is used.",
	Example: `  devjournal delete 42
  devjournal delete 42 --force
  devjournal delete --project old-prototype`,
	Args: func(cmd *cobra.Command, args []string) error {
		if deleteProject != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if deleteProject != "" {
			return deleteProjectRun(cmd.OutOrStdout(), deleteProject, forceDelete)
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return deleteRun(cmd.OutOrStdout(), id, forceDelete)
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&forceDelete, "force", false, "skip confirmation prompt")
	deleteCmd.Flags().StringVarP(&deleteProject, "project", "p", "", "delete every entry of this project")
	rootCmd.AddCommand(deleteCmd)
}

func deleteRun(w io.Writer, id int64, force bool) error {
	e, err := getEntry(id)
	if err != nil {
		return err
	}

	if !force {
		confirmed, err := confirm(ui.Deletion{Entries: []entry.Entry{e}})
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if err := store.Delete(id); err != nil {
		return err
	}
	appLog.Info().Int64("id", id).Msg("entry deleted")

	if jsonOutput {
		return ui.FormatJSON(w, ui.DeleteResult{ID: id, Deleted: true})
	}
	ui.FormatEntryDeleted(w, id)
	return nil
}

func deleteProjectRun(w io.Writer, project string, force bool) error {
	if !force {
		entries, err := store.List(storage.ListOptions{Project: project})
		if err != nil {
			return err
		}
		// Nothing to confirm for an empty project.
		if len(entries) > 0 {
			confirmed, err := confirm(ui.Deletion{Project: project, Entries: entries})
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(w, "Cancelled.")
				return nil
			}
		}
	}

	n, err := store.DeleteByProject(project)
	if err != nil {
		return err
	}
	appLog.Info().Str("project", project).Int("deleted", n).Msg("project entries deleted")

	if jsonOutput {
		return ui.FormatJSON(w, ui.ProjectDeleteResult{Project: project, Deleted: n})
	}
	ui.FormatProjectDeleted(w, project, n)
	return nil
}
