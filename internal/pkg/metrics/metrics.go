package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the project metrics registry, served on the /metrics
// endpoint when the HTTP server is enabled.
var Registry = prometheus.NewRegistry()

var (
	// MigrationOutcome records the result of the boot-time migration
	// (1 in exactly one of the labeled states).
	MigrationOutcome = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "airshift_migration_outcome",
			Help: "Outcome of the boot-time migration (noop, migrated, failed).",
		},
		[]string{"outcome"},
	)

	// NetworksMigratedTotal counts saved networks applied from the legacy store.
	NetworksMigratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "airshift_networks_migrated_total",
			Help: "Total number of saved networks migrated from the legacy config store.",
		},
	)

	// SettingsDivergedTotal counts settings that differed from their defaults.
	SettingsDivergedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "airshift_settings_diverged_total",
			Help: "Number of migrated settings that diverged from documented defaults.",
		},
	)

	// MalformedTransfersTotal counts parcel streams rejected during decode.
	MalformedTransfersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "airshift_malformed_transfers_total",
			Help: "Total number of transfer parcels rejected as malformed.",
		},
	)

	// MigrationDuration observes the wall time of the whole migration attempt.
	MigrationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "airshift_migration_duration_seconds",
			Help:    "Duration of the boot-time migration attempt.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(MigrationOutcome)
	Registry.MustRegister(NetworksMigratedTotal)
	Registry.MustRegister(SettingsDivergedTotal)
	Registry.MustRegister(MalformedTransfersTotal)
	Registry.MustRegister(MigrationDuration)
}
