package store

import "github.com/prometheus/client_golang/prometheus"

type storeMetricsCollector struct {
	store *CommandStore

	mutationsDesc  *prometheus.Desc
	savesDesc      *prometheus.Desc
	saveErrorsDesc *prometheus.Desc
	recoveriesDesc *prometheus.Desc
	loginFailsDesc *prometheus.Desc
	usersDesc      *prometheus.Desc
	logsDesc       *prometheus.Desc
}

// NewMetricsCollector exposes store activity counters and document gauges.
func NewMetricsCollector(s *CommandStore) prometheus.Collector {
	return &storeMetricsCollector{
		store: s,
		mutationsDesc: prometheus.NewDesc(
			"falcon_store_mutations_total",
			"Number of store mutations applied.",
			nil, nil,
		),
		savesDesc: prometheus.NewDesc(
			"falcon_store_saves_total",
			"Number of persistence writes attempted.",
			nil, nil,
		),
		saveErrorsDesc: prometheus.NewDesc(
			"falcon_store_save_errors_total",
			"Number of persistence writes that failed.",
			nil, nil,
		),
		recoveriesDesc: prometheus.NewDesc(
			"falcon_store_recoveries_total",
			"Number of corruption or admin-guarantee recoveries.",
			nil, nil,
		),
		loginFailsDesc: prometheus.NewDesc(
			"falcon_store_login_failures_total",
			"Number of rejected login attempts.",
			nil, nil,
		),
		usersDesc: prometheus.NewDesc(
			"falcon_store_users",
			"Number of user accounts by approval status.",
			[]string{"approved"}, nil,
		),
		logsDesc: prometheus.NewDesc(
			"falcon_store_audit_entries",
			"Number of retained audit log entries.",
			nil, nil,
		),
	}
}

func (c *storeMetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.mutationsDesc
	ch <- c.savesDesc
	ch <- c.saveErrorsDesc
	ch <- c.recoveriesDesc
	ch <- c.loginFailsDesc
	ch <- c.usersDesc
	ch <- c.logsDesc
}

func (c *storeMetricsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.store.StatsSnapshot()
	ch <- prometheus.MustNewConstMetric(c.mutationsDesc, prometheus.CounterValue, float64(stats.MutationsTotal))
	ch <- prometheus.MustNewConstMetric(c.savesDesc, prometheus.CounterValue, float64(stats.SavesTotal))
	ch <- prometheus.MustNewConstMetric(c.saveErrorsDesc, prometheus.CounterValue, float64(stats.SaveErrorsTotal))
	ch <- prometheus.MustNewConstMetric(c.recoveriesDesc, prometheus.CounterValue, float64(stats.RecoveriesTotal))
	ch <- prometheus.MustNewConstMetric(c.loginFailsDesc, prometheus.CounterValue, float64(stats.LoginFailures))

	snap := c.store.Snapshot()
	var approved, pending float64
	for _, u := range snap.Users {
		if u.IsApproved {
			approved++
		} else {
			pending++
		}
	}
	ch <- prometheus.MustNewConstMetric(c.usersDesc, prometheus.GaugeValue, approved, "true")
	ch <- prometheus.MustNewConstMetric(c.usersDesc, prometheus.GaugeValue, pending, "false")
	ch <- prometheus.MustNewConstMetric(c.logsDesc, prometheus.GaugeValue, float64(len(snap.Logs)))
}
