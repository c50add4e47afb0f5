package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/normalign/pkg/cache"
	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
	"github.com/matzehuels/normalign/pkg/normals"
	"github.com/matzehuels/normalign/pkg/validation"
)

// errValidationFailed is returned when a run finds errors, so the process
// exits non-zero.
var errValidationFailed = stderrors.New("validation failed")

type validateOpts struct {
	only        []string
	interactive bool
	fix         bool
	noCache     bool
	json        bool
	limit       int
}

func (c *CLI) validateCommand() *cobra.Command {
	var opts validateOpts

	cmd := &cobra.Command{
		Use:   "validate <document>...",
		Short: "Check mesh documents for topology and normal problems",
		Long: `Run the mesh validators on one or more documents.

Errors make the command exit non-zero; warnings do not. With --fix, validators
that can repair their findings do so and the document is rewritten. Reports of
unchanged documents are cached in the journal backend.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.only, "only", nil, "run only these validators")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick validators interactively")
	cmd.Flags().BoolVar(&opts.fix, "fix", false, "repair fixable findings and rewrite the document")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "ignore cached reports")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "findings listed per validator (0 for all)")
	_ = cmd.RegisterFlagCompletionFunc("only", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return validation.Builtins().Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// registry builds the validator registry from config and flags.
func (c *CLI) registry(only []string) (*validation.Registry, error) {
	reg := validation.Builtins()
	for _, name := range c.Config.Validate.Disabled {
		if err := reg.SetEnabled(name, false); err != nil {
			return nil, err
		}
	}
	if len(only) > 0 {
		if err := reg.Only(only...); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (c *CLI) runValidate(ctx context.Context, paths []string, opts validateOpts) error {
	reg, err := c.registry(opts.only)
	if err != nil {
		return err
	}
	if opts.interactive {
		ok, err := pickValidators(reg)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Canceled")
			return nil
		}
	}
	names := activeNames(reg)
	if len(names) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no validators enabled")
	}

	fix := opts.fix || c.Config.Validate.Fix
	runner := validation.NewRunner(reg, validation.RunnerOptions{Fix: fix, Logger: c.Logger})

	store := c.openStore(ctx)
	defer store.Close()

	total := &validation.Summary{}
	start := time.Now()
	for _, path := range paths {
		results, cached, err := c.validateDocument(ctx, runner, store, path, names, fix, opts.noCache)
		if err != nil && !errors.Is(err, errors.ErrCodeCanceled) {
			return err
		}
		addResults(total, results)
		if !opts.json {
			printDocumentReport(path, results, cached, opts.limit)
		}
		if err != nil {
			total.Canceled = true
			break
		}
	}
	total.Duration = time.Since(start)

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(total); err != nil {
			return err
		}
	} else {
		printSummary(total)
	}

	switch {
	case total.Canceled:
		return errors.New(errors.ErrCodeCanceled, "validation canceled")
	case !total.OK():
		return fmt.Errorf("%w: %s, %s", errValidationFailed,
			plural(total.Errors, "error"), plural(total.Failures, "failed validator"))
	}
	return nil
}

func activeNames(reg *validation.Registry) []string {
	active := reg.Active()
	names := make([]string, len(active))
	for i, v := range active {
		names[i] = v.Name()
	}
	return names
}

// validateDocument runs the active validators on one document, or returns
// the cached report of identical content. Fix runs are never cached.
func (c *CLI) validateDocument(ctx context.Context, runner *validation.Runner, store cache.Cache, path string, names []string, fix, noCache bool) ([]validation.Result, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	key := c.keyer().ReportKey(cache.Hash(data), names)

	if !fix && !noCache {
		if cached, ok, err := store.Get(ctx, key); err == nil && ok {
			var results []validation.Result
			if err := json.Unmarshal(cached, &results); err == nil {
				return results, true, nil
			}
		}
	}

	spinner := newSpinnerWithContext(ctx, "Validating "+path)
	spinner.Start()
	defer spinner.Stop()

	var sum *validation.Summary
	run := func(ctx context.Context, m *mesh.Memory) (int, error) {
		var err error
		sum, err = runner.Run(ctx, []validation.Target{{Name: m.Name(), Mesh: m}}, func(p validation.Progress) {
			spinner.SetMessage(fmt.Sprintf("%s · %s %d/%d", p.Target, p.Validator, p.Step, p.Count))
		})
		fixed := 0
		if sum != nil {
			for _, r := range sum.Results {
				fixed += r.Fixed
			}
		}
		return fixed, err
	}

	if fix {
		_, err = c.editDocument(ctx, path, "", func(ctx context.Context, _ *docScene, m *mesh.Memory, _ *normals.History) (bool, error) {
			fixed, err := run(ctx, m)
			return fixed > 0, err
		})
	} else {
		var m *mesh.Memory
		if m, err = mesh.ReadDocumentFile(path); err != nil {
			return nil, false, err
		}
		_, err = run(ctx, m)
	}
	if sum == nil {
		return nil, false, err
	}

	if err == nil && !fix && sum.Failures == 0 {
		if encoded, jerr := json.Marshal(sum.Results); jerr == nil {
			if serr := store.Set(ctx, key, encoded, c.Config.Journal.TTL.Duration); serr != nil {
				c.Logger.Debug("could not cache report", "document", path, "error", serr)
			}
		}
	}
	return sum.Results, false, err
}

func addResults(s *validation.Summary, results []validation.Result) {
	for _, r := range results {
		s.Results = append(s.Results, r)
		errs, warns := outstanding(r)
		s.Errors += errs
		s.Warnings += warns
		s.Count += r.Steps
		if r.ErrText != "" {
			s.Failures++
		}
	}
}

// outstanding counts the findings of r that were not repaired. Repairs are
// taken from errors first.
func outstanding(r validation.Result) (errs, warns int) {
	errs, warns = r.Errors(), r.Warnings()
	fixed := r.Fixed
	n := min(errs, fixed)
	errs, fixed = errs-n, fixed-n
	warns -= min(warns, fixed)
	return errs, warns
}

// =============================================================================
// Output
// =============================================================================

func printDocumentReport(path string, results []validation.Result, cached bool, limit int) {
	fmt.Fprintln(stdout, StyleTitle.Render(path))

	rows := make([][]string, len(results))
	for i, r := range results {
		status := StyleSuccess.Render(iconSuccess)
		switch {
		case r.ErrText != "":
			status = StyleError.Render(iconError)
		case r.Errors() > 0:
			status = StyleError.Render(iconError)
		case r.Warnings() > 0:
			status = StyleWarning.Render(iconWarning)
		}
		fixed := ""
		if r.Fixed > 0 {
			fixed = fmt.Sprint(r.Fixed)
		}
		rows[i] = []string{status, r.Validator, fmt.Sprint(r.Errors()), fmt.Sprint(r.Warnings()), fixed,
			r.Duration.Round(time.Microsecond).String()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Validator", "Errors", "Warnings", "Fixed", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorGray).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	fmt.Fprintln(stdout, t.Render())

	for _, r := range results {
		if r.ErrText != "" {
			printError("%s failed: %s", r.Validator, r.ErrText)
		}
		for i, is := range r.Issues {
			if limit > 0 && i == limit {
				printDetail("… %d more from %s", len(r.Issues)-limit, r.Validator)
				break
			}
			printIssue(r.Validator, is)
		}
	}

	var stats []string
	if len(results) > 0 {
		stats = append(stats, plural(len(results), "check"))
	}
	printStats(stats, &cached)
	printNewline()
}

func printIssue(validator string, is validation.Issue) {
	icon := styleIconWarning.Render(iconWarning)
	if is.Severity == validation.SeverityError {
		icon = styleIconError.Render(iconError)
	}
	fmt.Fprintf(stdout, "  %s %s %s %s\n", icon, StyleValue.Render(is.Node), StyleDim.Render(is.Message), StyleDim.Render("("+validator+")"))
}

func printSummary(s *validation.Summary) {
	parts := []string{
		plural(s.Errors, "error"),
		plural(s.Warnings, "warning"),
		s.Duration.Round(time.Millisecond).String(),
	}
	if s.Failures > 0 {
		parts = append(parts, plural(s.Failures, "failed validator"))
	}
	switch {
	case s.Canceled:
		printWarning("Validation canceled")
	case s.OK():
		printSuccess("Validation passed")
	default:
		printError("Validation failed")
	}
	printStats(parts, nil)
}
