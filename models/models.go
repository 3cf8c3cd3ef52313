package models

// DefaultPriority is the sentinel priority for contacts whose source is
// absent or not present in the priority rules. It sorts after every real
// tier, so these contacts are allocated last.
const DefaultPriority = 999

// Contact is a single row from the contacts tab. Phone is the identity key;
// it is normalized at parse time to undo the ".0" numeric-cell export
// artifact. Priority is zero until the preprocessor resolves it.
type Contact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Center   string `json:"center,omitempty"`
	Source   string `json:"source,omitempty"`
	Priority int    `json:"priority,omitempty"`
	// RowIndex is the 1-based row in the input tab, kept for diagnostics.
	RowIndex int `json:"-"`
}

// Agent is a worker contacts get assigned to. AllocatedContacts grows in
// assignment order; only the allocation engine appends to it.
type Agent struct {
	Name              string
	Center            string
	AllocatedContacts []Contact
}

// AllocationCount is the number of contacts assigned to the agent this run.
func (a *Agent) AllocationCount() int { return len(a.AllocatedContacts) }

// Duplicate records a contact dropped during deduplication.
type Duplicate struct {
	Phone         string
	KeptName      string
	DuplicateName string
}

// Unallocated pairs a contact with the reason no agent could take it.
type Unallocated struct {
	Contact Contact `json:"contact"`
	Reason  string  `json:"reason"`
}

// AgentStats is the per-agent slice of the summary.
type AgentStats struct {
	Count  int    `json:"count"`
	Center string `json:"center,omitempty"`
}

// Summary aggregates the outcome of one allocation run.
type Summary struct {
	TotalContacts        int                   `json:"total_contacts"`
	Allocated            int                   `json:"allocated"`
	Unallocated          int                   `json:"unallocated"`
	AgentBreakdown       map[string]AgentStats `json:"agent_breakdown"`
	PriorityDistribution map[int]int           `json:"priority_distribution"`
}

// AllocationResult is the full output of the allocation engine: one contact
// list per agent, the unallocated contacts with reasons, and the summary.
type AllocationResult struct {
	Allocations map[string][]Contact `json:"allocations"`
	Unallocated []Unallocated        `json:"unallocated"`
	Summary     Summary              `json:"summary"`
}
