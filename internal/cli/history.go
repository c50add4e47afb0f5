package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/normalign/pkg/journal"
	"github.com/matzehuels/normalign/pkg/mesh"
	"github.com/matzehuels/normalign/pkg/normals"
)

func (c *CLI) undoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <document>",
		Short: "Undo the last alignment of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStep(cmd.Context(), args[0], true)
		},
	}
}

func (c *CLI) redoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redo <document>",
		Short: "Redo the last undone alignment of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStep(cmd.Context(), args[0], false)
		},
	}
}

// runStep undoes or redoes one history entry.
func (c *CLI) runStep(ctx context.Context, path string, undo bool) error {
	var entry *normals.Entry
	_, err := c.editDocument(ctx, path, "", func(ctx context.Context, scene *docScene, _ *mesh.Memory, h *normals.History) (bool, error) {
		var err error
		if undo {
			entry, err = h.Undo(ctx, scene)
		} else {
			entry, err = h.Redo(ctx, scene)
		}
		return err == nil, err
	})
	if err != nil {
		return err
	}

	verb := "Redid"
	if undo {
		verb = "Undid"
	}
	printSuccess("%s %s align (%s)", verb, entry.Variant, plural(entry.Assignments(), "normal"))
	printDetail("%s · %s", entry.ID, entry.CreatedAt.Local().Format("Jan 2 15:04:05"))
	return nil
}

// historyCommand lists and clears the undo journal of a document.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <document>",
		Short: "Show the undo history of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHistory(cmd.Context(), args[0])
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear <document>",
		Short: "Forget the undo history of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, store := c.openJournal(cmd.Context())
			defer store.Close()
			if err := j.Clear(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Cleared history of %s", args[0])
			return nil
		},
	})
	return cmd
}

func (c *CLI) runHistory(ctx context.Context, path string) error {
	hash, err := hashFile(path)
	if err != nil {
		return err
	}

	j, store := c.openJournal(ctx)
	defer store.Close()

	h, err := j.Load(ctx, path, hash)
	switch {
	case stderrors.Is(err, journal.ErrEmpty):
		printInfo("No history for %s", path)
		return nil
	case stderrors.Is(err, journal.ErrStale):
		printWarning("%s changed since its history was saved", path)
		printNextStep("Start over with", "normalign history clear "+path)
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintln(stdout, renderHistory(h))
	printStats([]string{
		plural(len(h.Entries()), "undo step"),
		plural(len(h.RedoEntries()), "redo step"),
		fmt.Sprintf("depth %d", h.MaxDepth()),
	}, nil)
	return nil
}

// renderHistory tables the undo stack (newest first) above the redo stack.
func renderHistory(h *normals.History) string {
	var rows [][]string
	undo := h.Entries()
	for i := len(undo) - 1; i >= 0; i-- {
		rows = append(rows, historyRow("undo", undo[i]))
	}
	redo := h.RedoEntries()
	for i := len(redo) - 1; i >= 0; i-- {
		rows = append(rows, historyRow("redo", redo[i]))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Stack", "Variant", "Normals", "Meshes", "Created", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(undo) {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorDim)
		}).
		Render()
}

func historyRow(stack string, e *normals.Entry) []string {
	return []string{
		stack,
		string(e.Variant),
		fmt.Sprint(e.Assignments()),
		fmt.Sprint(len(e.Steps)),
		e.CreatedAt.Local().Format("Jan 2 15:04:05"),
		shortID(e.ID),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
