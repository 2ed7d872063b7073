package models

import "time"

// Snapshot bundles the five record collections. It is the unit of exchange
// between the persistent store and the mirror tiers: mirrors always carry full
// collections, never partial updates.
type Snapshot struct {
	Students    []Student    `json:"students"`
	Courses     []Course     `json:"courses"`
	Enrollments []Enrollment `json:"enrollments"`
	Assessments []Assessment `json:"assessments"`
	Grades      []Grade      `json:"grades"`
}

// Empty reports whether the snapshot has no students. The student collection
// decides authority during tier reconciliation.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Students) == 0
}

// SyncStatus describes the synchronization state exposed to clients.
type SyncStatus struct {
	Enabled  bool         `json:"enabled"`
	LastSync *time.Time   `json:"lastSync,omitempty"`
	Tiers    []TierStatus `json:"tiers"`
}

// TierStatus reports reachability of one mirror tier.
type TierStatus struct {
	Name      string `json:"name"`
	Reachable bool   `json:"reachable"`
}
