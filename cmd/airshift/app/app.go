// Package app builds the airshift command tree.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/airshift-io/airshift/cmd/airshift/app/options"
	"github.com/airshift-io/airshift/internal/archive"
	"github.com/airshift-io/airshift/internal/handoff"
	"github.com/airshift-io/airshift/internal/migrator"
	"github.com/airshift-io/airshift/internal/report"
	"github.com/airshift-io/airshift/internal/server"
	"github.com/airshift-io/airshift/internal/source"
	"github.com/airshift-io/airshift/pkg/log"
	"github.com/airshift-io/airshift/pkg/migration"
	"github.com/airshift-io/airshift/pkg/migration/parcel"
	"github.com/airshift-io/airshift/pkg/mqtt"
	"github.com/airshift-io/airshift/pkg/settings"
)

const commandDesc = `Airshift migrates a device's OEM Wi-Fi configuration and settings into
the new Wi-Fi stack's stores. The migration runs once per device: after a
successful run the legacy store is retired and later runs are no-ops.`

// NewAirshiftCommand builds the root command with its subcommands.
func NewAirshiftCommand(ctx context.Context) *cobra.Command {
	opts := options.NewMigrationOptions()

	cmd := &cobra.Command{
		Use:           "airshift",
		Short:         "One-shot OEM Wi-Fi configuration migration",
		Long:          commandDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Complete(cmd.Flags()); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			log.Init(opts.Log)
			return nil
		},
	}

	opts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(newRunCommand(ctx, opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newInspectCommand(opts))

	return cmd
}

func newRunCommand(ctx context.Context, opts *options.MigrationOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute the boot-time migration attempt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(ctx, opts)
		},
	}
}

func runMigration(ctx context.Context, opts *options.MigrationOptions) error {
	store, err := settings.OpenFile(opts.SettingsFile)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	store.Watch()

	src := source.NewStore(opts.LegacyStorePath)

	m, err := migrator.New(migrator.Config{
		Source:  src,
		Env:     store,
		Applier: &migrator.StoreApplier{ConfigPath: opts.ConfigStorePath, Settings: store},
		Handoff: handoff.NewDir(opts.HandoffDir),
		Backup:  newBackupFunc(opts, src),
		Retire:  src.Purge,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if opts.HttpOptions.Addr != "" {
		srv := server.NewServer(opts.HttpOptions)
		g.Go(func() error {
			return srv.Start(gctx)
		})
	}

	var res *migrator.Result
	g.Go(func() error {
		res = m.Run(gctx)
		publishReport(gctx, opts, res)
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if res.Outcome == migrator.OutcomeFailed {
		return fmt.Errorf("migration failed: %w", res.Err)
	}
	return nil
}

// newBackupFunc returns the pre-retire backup hook, or nil when no S3
// endpoint is configured.
func newBackupFunc(opts *options.MigrationOptions, src *source.Store) func(context.Context) error {
	if opts.S3Options.Endpoint == "" {
		return nil
	}
	return func(ctx context.Context) error {
		uploader, err := archive.NewS3Uploader(opts.S3Options)
		if err != nil {
			return err
		}
		key := archive.ObjectKey(opts.DeviceID, src.Path(), time.Now())
		return uploader.Upload(ctx, src.Path(), key)
	}
}

// publishReport sends the outcome to the fleet broker when one is
// configured. Reporting is best effort and never fails the run.
func publishReport(ctx context.Context, opts *options.MigrationOptions, res *migrator.Result) {
	if opts.MqttOptions.Broker == "" {
		return
	}

	client, err := mqtt.NewClient(opts.MqttOptions.ToClientConfig())
	if err != nil {
		log.Error(err, "failed to create mqtt client, skipping report")
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pub := report.NewPublisher(client, opts.MqttOptions.TopicRoot, opts.DeviceID)
	if err := pub.Publish(pubCtx, res); err != nil {
		log.Error(err, "failed to publish migration report")
	}
}

func newExportCommand(opts *options.MigrationOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Encode the legacy store into transfer parcels without applying them",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := settings.OpenFile(opts.SettingsFile)
			if err != nil {
				return fmt.Errorf("failed to open settings store: %w", err)
			}

			src := source.NewStore(opts.LegacyStorePath)

			cfg, err := src.LoadConfigSnapshot()
			if err != nil {
				return fmt.Errorf("failed to load legacy config: %w", err)
			}
			s, err := src.LoadSettingsSnapshot(store)
			if err != nil {
				return fmt.Errorf("failed to load legacy settings: %w", err)
			}

			dir := handoff.NewDir(opts.HandoffDir)
			if err := dir.Write(handoff.ConfigParcel, parcel.EncodeConfig(cfg)); err != nil {
				return err
			}
			if err := dir.Write(handoff.SettingsParcel, parcel.EncodeSettings(s)); err != nil {
				return err
			}

			log.Info("Exported transfer parcels", "dir", dir.Path())
			return nil
		},
	}
}

func newInspectCommand(opts *options.MigrationOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Decode the transfer parcels in the handoff directory and print them",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := handoff.NewDir(opts.HandoffDir)

			out := cmd.OutOrStdout()

			data, err := dir.Read(handoff.ConfigParcel)
			switch {
			case os.IsNotExist(err):
				fmt.Fprintln(out, "config parcel: not present")
			case err != nil:
				return err
			default:
				cfg, err := parcel.DecodeConfig(data)
				if err != nil {
					return fmt.Errorf("config parcel: %w", err)
				}
				printConfig(out, cfg)
			}

			data, err = dir.Read(handoff.SettingsParcel)
			switch {
			case os.IsNotExist(err):
				fmt.Fprintln(out, "settings parcel: not present")
			case err != nil:
				return err
			default:
				s, err := parcel.DecodeSettings(data)
				if err != nil {
					return fmt.Errorf("settings parcel: %w", err)
				}
				printSettings(out, s)
			}

			return nil
		},
	}
}

func printConfig(out io.Writer, cfg *migration.ConfigSnapshot) {
	if cfg == nil {
		fmt.Fprintln(out, "config parcel: no migration data")
		return
	}

	table := uitable.New()
	table.MaxColWidth = 50

	if networks, ok := cfg.SavedNetworks(); ok {
		table.AddRow("SSID", "SECURITY", "HIDDEN", "AUTO-CONNECT")
		for _, n := range networks {
			table.AddRow(n.SSID, n.Security.String(), n.Hidden, n.AutoConnect)
		}
	} else {
		table.AddRow("saved networks", "absent")
	}
	if ap, ok := cfg.AccessPoint(); ok {
		table.AddRow("")
		table.AddRow("AP SSID", "BAND", "CHANNEL", "MAX-CLIENTS")
		table.AddRow(ap.SSID, ap.Band.String(), ap.Channel, ap.MaxClients)
	}
	fmt.Fprintln(out, table)
}

func printSettings(out io.Writer, s *migration.SettingsSnapshot) {
	table := uitable.New()

	name, ok := s.P2PDeviceName()
	if !ok {
		name = "<absent>"
	}

	table.AddRow("SETTING", "VALUE")
	table.AddRow(migration.KeyScanAlwaysAvailable, s.ScanAlwaysAvailable())
	table.AddRow(migration.KeyP2PFactoryResetPending, s.P2PFactoryResetPending())
	table.AddRow(migration.KeyP2PDeviceName, name)
	table.AddRow(migration.KeySoftAPTimeoutEnabled, s.SoftAPTimeoutEnabled())
	table.AddRow(migration.KeyWakeupEnabled, s.WakeupEnabled())
	table.AddRow(migration.KeyScanThrottleEnabled, s.ScanThrottleEnabled())
	table.AddRow(migration.KeyVerboseLoggingEnabled, s.VerboseLoggingEnabled())
	fmt.Fprintln(out, table)
}
