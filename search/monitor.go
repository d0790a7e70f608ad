package search

import "github.com/poiesic/lyrica/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(track, artist string)
	AfterCandidateRetrieval(ids []core.ID)
	AfterHardFilter(records []*core.TrackRecord)
	Scored(record *core.TrackRecord, scored *core.ScoredTrack)
	Finish(results []*core.ScoredTrack)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                                 {}
func (n *noopMonitor) AfterCandidateRetrieval(_ []core.ID)               {}
func (n *noopMonitor) AfterHardFilter(_ []*core.TrackRecord)             {}
func (n *noopMonitor) Scored(_ *core.TrackRecord, _ *core.ScoredTrack)   {}
func (n *noopMonitor) Finish(_ []*core.ScoredTrack)                      {}
