package options

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/airshift-io/airshift/pkg/log"
	genericoptions "github.com/airshift-io/airshift/pkg/options"
)

// MigrationOptions aggregates everything the airshift commands need.
type MigrationOptions struct {
	// ConfigFile is an optional YAML file merged under the flag values.
	ConfigFile string `json:"-" mapstructure:"-"`

	// DeviceID identifies this device in backups and fleet reports.
	// Defaults to the hostname.
	DeviceID string `json:"device-id" mapstructure:"device-id"`

	// LegacyStorePath is the OEM config store to migrate from.
	LegacyStorePath string `json:"legacy-store" mapstructure:"legacy-store"`

	// HandoffDir holds the transfer parcels between producer and consumer.
	HandoffDir string `json:"handoff-dir" mapstructure:"handoff-dir"`

	// ConfigStorePath is where migrated networks and AP config are written.
	ConfigStorePath string `json:"config-store" mapstructure:"config-store"`

	// SettingsFile is the settings store read and written during migration.
	SettingsFile string `json:"settings-file" mapstructure:"settings-file"`

	HttpOptions *genericoptions.HttpOptions `json:"http" mapstructure:"http"`
	MqttOptions *genericoptions.MqttOptions `json:"mqtt" mapstructure:"mqtt"`
	S3Options   *genericoptions.S3Options   `json:"s3" mapstructure:"s3"`
	Log         *log.Options                `json:"log" mapstructure:"log"`
}

func NewMigrationOptions() *MigrationOptions {
	return &MigrationOptions{
		LegacyStorePath: "/data/oem/wifi_store.json",
		HandoffDir:      "/run/airshift",
		ConfigStorePath: "/data/airshift/wifi_config.json",
		SettingsFile:    "/data/airshift/settings.yaml",
		HttpOptions:     genericoptions.NewHttpOptions(),
		MqttOptions:     genericoptions.NewMqttOptions(),
		S3Options:       genericoptions.NewS3Options(),
		Log:             log.NewOptions(),
	}
}

// AddFlags binds all option fields to the given flag set.
func (o *MigrationOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFile, "config", "c", o.ConfigFile, "Path to an optional YAML config file; flags take precedence.")
	fs.StringVar(&o.DeviceID, "device-id", o.DeviceID, "Device identifier used in backups and fleet reports; defaults to the hostname.")
	fs.StringVar(&o.LegacyStorePath, "legacy-store", o.LegacyStorePath, "Path to the OEM legacy config store.")
	fs.StringVar(&o.HandoffDir, "handoff-dir", o.HandoffDir, "Directory for transfer parcels.")
	fs.StringVar(&o.ConfigStorePath, "config-store", o.ConfigStorePath, "Destination config store for migrated networks and AP config.")
	fs.StringVar(&o.SettingsFile, "settings-file", o.SettingsFile, "Settings store read and written during migration.")

	o.HttpOptions.AddFlags(fs)
	o.MqttOptions.AddFlags(fs)
	o.S3Options.AddFlags(fs)
	o.Log.AddFlags(fs)
}

// Complete merges the config file, if any, under the flag values and fills
// in derived defaults.
func (o *MigrationOptions) Complete(fs *pflag.FlagSet) error {
	if o.ConfigFile != "" {
		v := viper.New()
		v.SetConfigFile(o.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Flags changed on the command line win over file values.
		changed := map[string]string{}
		fs.Visit(func(f *pflag.Flag) {
			changed[f.Name] = f.Value.String()
		})

		if err := v.Unmarshal(o); err != nil {
			return fmt.Errorf("failed to unmarshal config file: %w", err)
		}

		for name, value := range changed {
			if err := fs.Set(name, value); err != nil {
				return fmt.Errorf("failed to re-apply flag %q: %w", name, err)
			}
		}
	}

	if o.DeviceID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("failed to resolve device id: %w", err)
		}
		o.DeviceID = hostname
	}

	return nil
}

// Validate checks the assembled option set.
func (o *MigrationOptions) Validate() error {
	errs := []error{}

	if o.LegacyStorePath == "" {
		errs = append(errs, errors.New("legacy-store must not be empty"))
	}
	if o.HandoffDir == "" {
		errs = append(errs, errors.New("handoff-dir must not be empty"))
	}
	if o.ConfigStorePath == "" {
		errs = append(errs, errors.New("config-store must not be empty"))
	}
	if o.SettingsFile == "" {
		errs = append(errs, errors.New("settings-file must not be empty"))
	}
	if o.S3Options.Endpoint != "" && o.S3Options.BucketName == "" {
		errs = append(errs, errors.New("s3.bucket-name must not be empty when s3.endpoint is set"))
	}

	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	return errors.Join(errs...)
}
