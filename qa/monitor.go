package qa

import "github.com/saideep872/aurora-qa/core"

// QueryMonitor provides hooks to observe a query moving through the pipeline.
// Implement this interface to track intermediate stage outputs.
type QueryMonitor interface {
	Start(question string)
	AfterFiltering(targetPerson string, candidates []*core.Message)
	AfterRanking(ranked []core.Candidate)
	AfterSanitizing(sanitized []core.SanitizedCandidate)
	Finish(answer *core.Answer)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                {}
func (n *noopMonitor) AfterFiltering(_ string, _ []*core.Message)    {}
func (n *noopMonitor) AfterRanking(_ []core.Candidate)               {}
func (n *noopMonitor) AfterSanitizing(_ []core.SanitizedCandidate)   {}
func (n *noopMonitor) Finish(_ *core.Answer)                         {}
