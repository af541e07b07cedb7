package service

import "sync/atomic"

// Metrics tracks pipeline activity.
type Metrics struct {
	PipelineRuns   int64 `json:"pipeline_runs"`
	LoadFailures   int64 `json:"load_failures"`
	Reloads        int64 `json:"reloads"`
	CacheHits      int64 `json:"cache_hits"`
	CacheMisses    int64 `json:"cache_misses"`
	SnapshotsSaved int64 `json:"snapshots_saved"`
}

var globalMetrics = &Metrics{}

// GetMetrics returns a snapshot of the counters.
func GetMetrics() Metrics {
	return Metrics{
		PipelineRuns:   atomic.LoadInt64(&globalMetrics.PipelineRuns),
		LoadFailures:   atomic.LoadInt64(&globalMetrics.LoadFailures),
		Reloads:        atomic.LoadInt64(&globalMetrics.Reloads),
		CacheHits:      atomic.LoadInt64(&globalMetrics.CacheHits),
		CacheMisses:    atomic.LoadInt64(&globalMetrics.CacheMisses),
		SnapshotsSaved: atomic.LoadInt64(&globalMetrics.SnapshotsSaved),
	}
}

// ResetMetrics zeroes all counters (tests).
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.PipelineRuns, 0)
	atomic.StoreInt64(&globalMetrics.LoadFailures, 0)
	atomic.StoreInt64(&globalMetrics.Reloads, 0)
	atomic.StoreInt64(&globalMetrics.CacheHits, 0)
	atomic.StoreInt64(&globalMetrics.CacheMisses, 0)
	atomic.StoreInt64(&globalMetrics.SnapshotsSaved, 0)
}

func recordPipelineRun()  { atomic.AddInt64(&globalMetrics.PipelineRuns, 1) }
func recordLoadFailure()  { atomic.AddInt64(&globalMetrics.LoadFailures, 1) }
func recordReload()       { atomic.AddInt64(&globalMetrics.Reloads, 1) }
func recordCacheHit()     { atomic.AddInt64(&globalMetrics.CacheHits, 1) }
func recordCacheMiss()    { atomic.AddInt64(&globalMetrics.CacheMisses, 1) }
func recordSnapshotSave() { atomic.AddInt64(&globalMetrics.SnapshotsSaved, 1) }
