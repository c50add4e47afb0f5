package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/normalign/pkg/observability"
)

// installDebugHooks routes engine, validation and cache events to l at
// debug level.
func installDebugHooks(l *log.Logger) {
	h := debugHooks{l: l.WithPrefix("hooks")}
	observability.SetNormalsHooks(h)
	observability.SetValidationHooks(h)
	observability.SetCacheHooks(h)
}

type debugHooks struct {
	l *log.Logger
}

func (h debugHooks) OnPlanStart(_ context.Context, variant string, components int) {
	h.l.Debug("plan start", "variant", variant, "components", components)
}

func (h debugHooks) OnPlanComplete(_ context.Context, variant string, meshes, assignments int, d time.Duration, err error) {
	h.l.Debug("plan complete", "variant", variant, "meshes", meshes, "assignments", assignments, "duration", d, "error", err)
}

func (h debugHooks) OnApply(_ context.Context, variant, entryID string, err error) {
	h.l.Debug("apply", "variant", variant, "entry", entryID, "error", err)
}

func (h debugHooks) OnRevert(_ context.Context, variant, entryID string, err error) {
	h.l.Debug("revert", "variant", variant, "entry", entryID, "error", err)
}

func (h debugHooks) OnValidatorStart(_ context.Context, validator, target string) {
	h.l.Debug("validator start", "validator", validator, "target", target)
}

func (h debugHooks) OnValidatorComplete(_ context.Context, validator, target string, errs, warns int, d time.Duration, err error) {
	h.l.Debug("validator complete", "validator", validator, "target", target,
		"errors", errs, "warnings", warns, "duration", d, "error", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.l.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.l.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.l.Debug("cache set", "type", keyType, "bytes", size)
}
