// Package validation runs named checks against meshes and collects their
// findings.
//
// Validators are registered explicitly in a [Registry] built at startup; there
// is no global registry. A [Runner] executes the enabled validators against
// a list of [Target] meshes, one validator at a time, and returns a
// [Summary] with per-validator results:
//
//	reg := validation.Builtins()
//	_ = reg.Only("open-edges", "zero-normals")
//	runner := validation.NewRunner(reg, validation.RunnerOptions{})
//	summary, err := runner.Run(ctx, []validation.Target{{Name: "plane", Mesh: m}}, nil)
//
// Validators report progress through [Report.Step]. When the runner is
// stopped, Step returns [ErrStopped] and the validator should return it.
//
// Validators that can repair what they find implement [Fixer]; the runner
// calls Fix after a validation with issues when fixing is enabled.
package validation
