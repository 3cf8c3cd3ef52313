// Package allocator distributes contacts across agents with priority-tiered
// round-robin assignment. Tiers are processed in ascending priority order and
// each tier runs one shared cursor across all of its contacts, so a stable
// eligible subset splits a tier's contacts evenly (difference of at most one
// between any two agents). When eligibility shifts between contacts of the
// same tier the split is only even per fixed subset; no cross-subset
// rebalancing is attempted.
package allocator

import (
	"fmt"
	"sort"

	"contact-allocator/models"
)

// Allocate assigns every contact to at most one agent, mutating the agents'
// allocation lists in place, and returns the full result. Contacts must
// arrive with resolved priorities. maxPerAgent caps how many contacts a
// single agent may hold this run; zero means unlimited. An empty contact
// list yields an empty result.
func Allocate(contacts []models.Contact, agents []models.Agent, maxPerAgent int) *models.AllocationResult {
	groups := make(map[int][]models.Contact)
	for _, c := range contacts {
		groups[c.Priority] = append(groups[c.Priority], c)
	}

	priorities := make([]int, 0, len(groups))
	for p := range groups {
		priorities = append(priorities, p)
	}
	sort.Ints(priorities)

	var unallocated []models.Unallocated
	for _, p := range priorities {
		unallocated = allocateGroup(groups[p], agents, maxPerAgent, unallocated)
	}

	allocations := make(map[string][]models.Contact, len(agents))
	for i := range agents {
		allocations[agents[i].Name] = agents[i].AllocatedContacts
	}

	return &models.AllocationResult{
		Allocations: allocations,
		Unallocated: unallocated,
		Summary:     Summarize(len(contacts), agents, unallocated),
	}
}

// allocateGroup assigns one priority tier. The cursor is shared by every
// contact in the tier and advances only on assignment; an unallocatable
// contact does not shift the rotation for the rest of the tier.
func allocateGroup(group []models.Contact, agents []models.Agent, maxPerAgent int, unallocated []models.Unallocated) []models.Unallocated {
	cursor := 0
	for _, c := range group {
		eligible := eligibleAgents(c, agents, maxPerAgent)
		if len(eligible) == 0 {
			unallocated = append(unallocated, models.Unallocated{
				Contact: c,
				Reason:  unallocationReason(c, agents, maxPerAgent),
			})
			continue
		}

		idx := eligible[cursor%len(eligible)]
		agents[idx].AllocatedContacts = append(agents[idx].AllocatedContacts, c)
		cursor++
	}
	return unallocated
}

// eligibleAgents returns indexes into agents, in agent order, of every agent
// the contact may be assigned to.
func eligibleAgents(c models.Contact, agents []models.Agent, maxPerAgent int) []int {
	var eligible []int
	for i := range agents {
		if !centerMatch(c.Center, agents[i].Center) {
			continue
		}
		if maxPerAgent > 0 && agents[i].AllocationCount() >= maxPerAgent {
			continue
		}
		eligible = append(eligible, i)
	}
	return eligible
}

// centerMatch is the eligibility rule: centered contacts pair only with
// agents of the exact same center (case-sensitive), centerless contacts only
// with centerless agents.
func centerMatch(contactCenter, agentCenter string) bool {
	if contactCenter != "" && agentCenter != "" {
		return contactCenter == agentCenter
	}
	return contactCenter == "" && agentCenter == ""
}

// unallocationReason explains an empty eligible subset. If some agent matches
// the contact's center the only remaining cause is the allocation cap.
func unallocationReason(c models.Contact, agents []models.Agent, maxPerAgent int) string {
	for i := range agents {
		if centerMatch(c.Center, agents[i].Center) {
			return fmt.Sprintf("All eligible agents at allocation cap (%d)", maxPerAgent)
		}
	}
	if c.Center != "" {
		return fmt.Sprintf("No agent with center '%s'", c.Center)
	}
	return "Unknown reason"
}

// Summarize aggregates post-allocation state: totals, per-agent counts and
// the assigned-count-per-priority distribution. totalContacts is the size of
// the batch handed to Allocate, so assigned + unallocated always adds back
// up to it.
func Summarize(totalContacts int, agents []models.Agent, unallocated []models.Unallocated) models.Summary {
	breakdown := make(map[string]models.AgentStats, len(agents))
	distribution := make(map[int]int)
	allocated := 0

	for i := range agents {
		a := &agents[i]
		breakdown[a.Name] = models.AgentStats{
			Count:  a.AllocationCount(),
			Center: a.Center,
		}
		allocated += a.AllocationCount()
		for _, c := range a.AllocatedContacts {
			distribution[c.Priority]++
		}
	}

	return models.Summary{
		TotalContacts:        totalContacts,
		Allocated:            allocated,
		Unallocated:          len(unallocated),
		AgentBreakdown:       breakdown,
		PriorityDistribution: distribution,
	}
}
