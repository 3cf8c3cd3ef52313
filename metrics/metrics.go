// Package metrics provides Prometheus observability metrics for the contact
// allocator. It includes Critical and Important metrics for business and
// operational visibility.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"contact-allocator/models"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// ContactsTotal tracks the deduplicated contact batch size handed to the engine.
var ContactsTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "allocator",
	Name:      "contacts_total",
	Help:      "Number of contacts in the batch after deduplication and incremental filtering",
})

// ContactsAllocated tracks contacts successfully assigned to an agent.
var ContactsAllocated = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "allocator",
	Name:      "contacts_allocated_total",
	Help:      "Number of contacts successfully assigned to an agent",
})

// ContactsUnallocated tracks contacts no agent was eligible for.
// High values indicate center coverage or capacity issues.
var ContactsUnallocated = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "allocator",
	Name:      "contacts_unallocated_total",
	Help:      "Number of contacts with no eligible agent",
})

// AllocationsByPriority tracks assigned contacts per priority tier.
var AllocationsByPriority = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "allocator",
	Name:      "allocations_by_priority",
	Help:      "Assigned contacts broken down by priority tier",
}, []string{"priority"})

// AllocationsByAgent tracks contacts received per agent this run.
var AllocationsByAgent = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "allocator",
	Name:      "allocations_by_agent",
	Help:      "Contacts assigned to each agent in this run",
}, []string{"agent"})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// DuplicatesRemoved tracks contacts dropped by phone-key deduplication.
var DuplicatesRemoved = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "preprocess",
	Name:      "duplicates_removed_total",
	Help:      "Contacts dropped because their phone key was already seen",
})

// AlreadyAllocatedSkipped tracks contacts excluded by the incremental filter.
var AlreadyAllocatedSkipped = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "reconcile",
	Name:      "already_allocated_skipped_total",
	Help:      "Contacts skipped because a prior snapshot already allocated them",
})

// InactiveAgents tracks snapshot agents missing from the current input.
var InactiveAgents = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "reconcile",
	Name:      "inactive_agents",
	Help:      "Agents present in the snapshot but absent from the current input",
})

// FetchDurationSeconds tracks time to fetch each input tab.
var FetchDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "sheets",
	Name:      "fetch_duration_seconds",
	Help:      "Time taken to fetch one input tab from the row source",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
}, []string{"tab"})

// AllocateDurationSeconds tracks time to run the allocation engine.
var AllocateDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "allocator",
	Name:      "duration_seconds",
	Help:      "Time taken to allocate the contact batch",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// ContactsProcessed tracks batch sizes per allocation run.
var ContactsProcessed = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "allocator",
	Name:      "contacts_processed",
	Help:      "Number of contacts processed per allocation run",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetGauges resets all run-scoped gauges before a new allocation run.
func ResetGauges() {
	ContactsTotal.Set(0)
	ContactsAllocated.Set(0)
	ContactsUnallocated.Set(0)
	DuplicatesRemoved.Set(0)
	AlreadyAllocatedSkipped.Set(0)
	InactiveAgents.Set(0)
	AllocationsByPriority.Reset()
	AllocationsByAgent.Reset()
}

// ObserveResult records the outcome of one allocation run.
func ObserveResult(result *models.AllocationResult) {
	s := result.Summary
	ContactsTotal.Set(float64(s.TotalContacts))
	ContactsAllocated.Set(float64(s.Allocated))
	ContactsUnallocated.Set(float64(s.Unallocated))
	ContactsProcessed.Observe(float64(s.TotalContacts))

	for priority, count := range s.PriorityDistribution {
		AllocationsByPriority.WithLabelValues(strconv.Itoa(priority)).Set(float64(count))
	}
	for agent, stats := range s.AgentBreakdown {
		AllocationsByAgent.WithLabelValues(agent).Set(float64(stats.Count))
	}
}
