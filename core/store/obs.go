package store

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of store activity counters.
type Stats struct {
	MutationsTotal  uint64     `json:"mutations_total"`
	SavesTotal      uint64     `json:"saves_total"`
	SaveErrorsTotal uint64     `json:"save_errors_total"`
	RecoveriesTotal uint64     `json:"recoveries_total"`
	LoginFailures   uint64     `json:"login_failures_total"`
	LastSaveAtUTC   *time.Time `json:"last_save_at_utc,omitempty"`
}

type storeObs struct {
	mutations     atomic.Uint64
	saves         atomic.Uint64
	saveErrors    atomic.Uint64
	recoveries    atomic.Uint64
	loginFailures atomic.Uint64
	lastSaveNs    atomic.Int64
}

func (o *storeObs) recordMutation() {
	if o == nil {
		return
	}
	o.mutations.Add(1)
}

func (o *storeObs) recordSave(err error) {
	if o == nil {
		return
	}
	o.saves.Add(1)
	if err != nil {
		o.saveErrors.Add(1)
		return
	}
	o.lastSaveNs.Store(time.Now().UTC().UnixNano())
}

func (o *storeObs) recordRecovery() {
	if o == nil {
		return
	}
	o.recoveries.Add(1)
}

func (o *storeObs) recordLoginFailure() {
	if o == nil {
		return
	}
	o.loginFailures.Add(1)
}

func (s *CommandStore) StatsSnapshot() Stats {
	if s == nil {
		return Stats{}
	}
	ns := s.obs.lastSaveNs.Load()
	var last *time.Time
	if ns > 0 {
		t := time.Unix(0, ns).UTC()
		last = &t
	}
	return Stats{
		MutationsTotal:  s.obs.mutations.Load(),
		SavesTotal:      s.obs.saves.Load(),
		SaveErrorsTotal: s.obs.saveErrors.Load(),
		RecoveriesTotal: s.obs.recoveries.Load(),
		LoginFailures:   s.obs.loginFailures.Load(),
		LastSaveAtUTC:   last,
	}
}
