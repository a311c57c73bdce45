// Package migrator is the boot-time consumer of the migration contract:
// it invokes the source exactly once, moves the snapshots across the
// parcel boundary, applies the decoded data, and retires the legacy store.
package migrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/airshift-io/airshift/internal/handoff"
	"github.com/airshift-io/airshift/internal/pkg/metrics"
	"github.com/airshift-io/airshift/pkg/log"
	"github.com/airshift-io/airshift/pkg/migration"
	"github.com/airshift-io/airshift/pkg/migration/parcel"
)

// Outcome summarizes how the attempt ended.
type Outcome string

const (
	// OutcomeNoop means there was no config data to migrate; only the
	// settings snapshot was applied.
	OutcomeNoop Outcome = "noop"
	// OutcomeMigrated means legacy config data was applied.
	OutcomeMigrated Outcome = "migrated"
	// OutcomeFailed means the attempt was abandoned and the boot continues
	// without migrated data.
	OutcomeFailed Outcome = "failed"
)

// Result is what a migration attempt produced.
type Result struct {
	Outcome          Outcome
	Phase            Phase
	NetworksMigrated int
	APMigrated       bool
	SettingsDiverged int
	Err              error
}

// Config wires a Migrator.
type Config struct {
	// Source is the legacy producer.
	Source migration.Source

	// Env is the settings provider read side handed to the source.
	Env migration.Environment

	// Applier lands decoded data in the new stack's stores.
	Applier Applier

	// Handoff is the parcel directory crossing the process boundary.
	Handoff *handoff.Dir

	// Backup, when non-nil, runs before Retire to archive the legacy
	// store. A backup failure aborts the retire but not the migration.
	Backup func(ctx context.Context) error

	// Retire, when non-nil, runs after config data was applied so the
	// producer returns absent on every later boot.
	Retire func() error
}

// Migrator runs one migration attempt per boot.
type Migrator struct {
	cfg Config
	fsm *sessionFSM
}

// New validates the wiring and returns a Migrator.
func New(cfg Config) (*Migrator, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("migrator: source is required")
	}
	if cfg.Env == nil {
		return nil, fmt.Errorf("migrator: settings environment is required")
	}
	if cfg.Applier == nil {
		return nil, fmt.Errorf("migrator: applier is required")
	}
	if cfg.Handoff == nil {
		return nil, fmt.Errorf("migrator: handoff dir is required")
	}
	return &Migrator{cfg: cfg, fsm: newSessionFSM()}, nil
}

// Phase returns the session's current phase.
func (m *Migrator) Phase() Phase {
	return m.fsm.phase()
}

// Run executes the single migration attempt. Errors end up in the Result;
// the caller proceeds with boot either way, per the single-attempt rule.
func (m *Migrator) Run(ctx context.Context) *Result {
	start := time.Now()
	res := m.run(ctx)
	res.Phase = m.fsm.phase()

	metrics.MigrationDuration.Observe(time.Since(start).Seconds())
	metrics.MigrationOutcome.WithLabelValues(string(res.Outcome)).Set(1)

	switch res.Outcome {
	case OutcomeFailed:
		log.Error(res.Err, "migration attempt abandoned, booting without migrated data")
	default:
		log.Info("migration attempt finished",
			"outcome", string(res.Outcome),
			"networks", res.NetworksMigrated,
			"apMigrated", res.APMigrated,
			"settingsDiverged", res.SettingsDiverged,
			"elapsed", time.Since(start))
	}
	return res
}

func (m *Migrator) run(ctx context.Context) *Result {
	res := &Result{Outcome: OutcomeFailed}

	fail := func(err error) *Result {
		res.Err = err
		_ = m.fsm.Event(ctx, eventFail)
		if errors.Is(err, parcel.ErrMalformed) {
			metrics.MalformedTransfersTotal.Inc()
		}
		return res
	}

	if err := m.fsm.Event(ctx, eventStart); err != nil {
		res.Err = fmt.Errorf("migration already ran this boot: %w", err)
		return res
	}

	// Loading: the one and only source invocation of this boot.
	configSnap, err := m.cfg.Source.LoadConfigSnapshot()
	if err != nil {
		return fail(fmt.Errorf("config source failed: %w", err))
	}
	settingsSnap, err := m.cfg.Source.LoadSettingsSnapshot(m.cfg.Env)
	if err != nil {
		return fail(fmt.Errorf("settings source failed: %w", err))
	}
	if settingsSnap == nil {
		return fail(fmt.Errorf("settings source returned no snapshot"))
	}

	if err := m.fsm.Event(ctx, eventTransfer); err != nil {
		return fail(err)
	}

	// Transferring: encode on the producer side of the boundary, decode on
	// the consumer side. The decoded values, not the in-process ones, get
	// applied; the boundary is real even when both halves share a process.
	if err := m.cfg.Handoff.Write(handoff.ConfigParcel, parcel.EncodeConfig(configSnap)); err != nil {
		return fail(fmt.Errorf("config handoff failed: %w", err))
	}
	if err := m.cfg.Handoff.Write(handoff.SettingsParcel, parcel.EncodeSettings(settingsSnap)); err != nil {
		return fail(fmt.Errorf("settings handoff failed: %w", err))
	}

	configData, err := m.cfg.Handoff.Read(handoff.ConfigParcel)
	if err != nil {
		return fail(fmt.Errorf("config handoff read failed: %w", err))
	}
	decodedConfig, err := parcel.DecodeConfig(configData)
	if err != nil {
		return fail(err)
	}
	settingsData, err := m.cfg.Handoff.Read(handoff.SettingsParcel)
	if err != nil {
		return fail(fmt.Errorf("settings handoff read failed: %w", err))
	}
	decodedSettings, err := parcel.DecodeSettings(settingsData)
	if err != nil {
		return fail(err)
	}

	if err := m.fsm.Event(ctx, eventApply); err != nil {
		return fail(err)
	}

	// Applying: settings always; config only when the producer had one.
	if err := m.cfg.Applier.ApplySettings(decodedSettings); err != nil {
		return fail(fmt.Errorf("failed to apply settings: %w", err))
	}
	res.SettingsDiverged = countDiverged(decodedSettings)
	metrics.SettingsDivergedTotal.Add(float64(res.SettingsDiverged))

	if decodedConfig != nil {
		if networks, ok := decodedConfig.SavedNetworks(); ok {
			if err := m.cfg.Applier.ApplyNetworks(networks); err != nil {
				return fail(fmt.Errorf("failed to apply networks: %w", err))
			}
			res.NetworksMigrated = len(networks)
			metrics.NetworksMigratedTotal.Add(float64(len(networks)))
		}
		if ap, ok := decodedConfig.AccessPoint(); ok {
			if err := m.cfg.Applier.ApplyAccessPoint(ap); err != nil {
				return fail(fmt.Errorf("failed to apply access point: %w", err))
			}
			res.APMigrated = true
		}
	}

	if decodedConfig != nil {
		m.retire(ctx)
		res.Outcome = OutcomeMigrated
	} else {
		res.Outcome = OutcomeNoop
	}

	_ = m.cfg.Handoff.Remove(handoff.ConfigParcel)
	_ = m.cfg.Handoff.Remove(handoff.SettingsParcel)

	if err := m.fsm.Event(ctx, eventSuccess); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}
	return res
}

// retire backs up and purges the legacy store. Failures here are logged
// but never fail the migration: the data is already applied, and the worst
// case is the producer violating one-shot on the next boot, which the
// contract leaves to the producer anyway.
func (m *Migrator) retire(ctx context.Context) {
	if m.cfg.Backup != nil {
		if err := m.cfg.Backup(ctx); err != nil {
			log.Warn("legacy store backup failed, leaving store in place", "err", err)
			return
		}
	}
	if m.cfg.Retire != nil {
		if err := m.cfg.Retire(); err != nil {
			log.Warn("legacy store retire failed", "err", err)
		}
	}
}

// countDiverged reports how many of the seven settings differ from their
// documented defaults.
func countDiverged(s *migration.SettingsSnapshot) int {
	defaults := migration.NewSettingsSnapshotBuilder().Build()
	n := 0
	if s.ScanAlwaysAvailable() != defaults.ScanAlwaysAvailable() {
		n++
	}
	if s.P2PFactoryResetPending() != defaults.P2PFactoryResetPending() {
		n++
	}
	name, ok := s.P2PDeviceName()
	defName, defOK := defaults.P2PDeviceName()
	if ok != defOK || name != defName {
		n++
	}
	if s.SoftAPTimeoutEnabled() != defaults.SoftAPTimeoutEnabled() {
		n++
	}
	if s.WakeupEnabled() != defaults.WakeupEnabled() {
		n++
	}
	if s.ScanThrottleEnabled() != defaults.ScanThrottleEnabled() {
		n++
	}
	if s.VerboseLoggingEnabled() != defaults.VerboseLoggingEnabled() {
		n++
	}
	return n
}
