// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BatchStats summarizes one parallel verification run. All timing fields
// are measured per reference; TotalTime is wall clock for the batch.
type BatchStats struct {
	// TotalReferences is the bibliography size.
	TotalReferences int `json:"total_references" yaml:"total_references"`

	// Processed is the number of verdicts flushed in order. Equals
	// TotalReferences after a completed run.
	Processed int `json:"processed" yaml:"processed"`

	// TotalFindings is the sum of finding counts across all verdicts.
	TotalFindings int `json:"total_findings" yaml:"total_findings"`

	// TotalTime is the wall-clock duration of the batch.
	TotalTime time.Duration `json:"total_time" yaml:"total_time"`

	// ReferencesPerSecond is TotalReferences divided by TotalTime.
	ReferencesPerSecond float64 `json:"references_per_second" yaml:"references_per_second"`

	// AvgTime is the running average per-reference verification time.
	AvgTime time.Duration `json:"avg_time" yaml:"avg_time"`

	// FastestTime is the smallest per-reference time observed (0 when
	// nothing was processed).
	FastestTime time.Duration `json:"fastest_time" yaml:"fastest_time"`

	// SlowestTime is the largest per-reference time observed.
	SlowestTime time.Duration `json:"slowest_time" yaml:"slowest_time"`
}
