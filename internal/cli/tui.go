package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/normalign/pkg/validation"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// ValidatorPickerModel - Interactive validator selection
// =============================================================================

// ValidatorPickerModel is the bubbletea model for choosing validators.
type ValidatorPickerModel struct {
	Validators []validation.Validator
	Checked    []bool
	Cursor     int

	// Confirmed is set when the user accepts the selection with enter.
	Confirmed bool
}

// NewValidatorPickerModel starts with the registry's enabled validators
// checked.
func NewValidatorPickerModel(reg *validation.Registry) ValidatorPickerModel {
	all := reg.All()
	checked := make([]bool, len(all))
	for i, v := range all {
		checked[i] = reg.Enabled(v.Name())
	}
	return ValidatorPickerModel{Validators: all, Checked: checked}
}

// Names returns the checked validator names in registry order.
func (m ValidatorPickerModel) Names() []string {
	var names []string
	for i, v := range m.Validators {
		if m.Checked[i] {
			names = append(names, v.Name())
		}
	}
	return names
}

func (m ValidatorPickerModel) Init() tea.Cmd {
	return nil
}

func (m ValidatorPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Validators)-1 {
			m.Cursor++
		}
	case " ", "x":
		if len(m.Checked) > 0 {
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		}
	case "a":
		all := !allTrue(m.Checked)
		for i := range m.Checked {
			m.Checked[i] = all
		}
	case "enter":
		if len(m.Names()) == 0 {
			return m, nil
		}
		m.Confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ValidatorPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Validators"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ run  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Validators))
	for i, v := range m.Validators {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Checked[i] {
			box = "[x]"
		}
		rows[i] = []string{cursor, box, v.Name(), v.Description()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Validator", "Checks").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if row == m.Cursor {
				base = base.Bold(true)
			}
			if row < len(m.Checked) && m.Checked[row] {
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.Names()), len(m.Validators))))
	return b.String()
}

func allTrue(bs []bool) bool {
	for _, b := range bs {
		if !b {
			return false
		}
	}
	return true
}

// pickValidators runs the picker and narrows reg to the chosen validators.
// It reports false when the user quit without confirming.
func pickValidators(reg *validation.Registry) (bool, error) {
	final, err := tea.NewProgram(NewValidatorPickerModel(reg)).Run()
	if err != nil {
		return false, err
	}
	m := final.(ValidatorPickerModel)
	if !m.Confirmed {
		return false, nil
	}
	return true, reg.Only(m.Names()...)
}
