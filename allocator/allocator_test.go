package allocator_test

import (
	"fmt"
	"testing"

	"contact-allocator/allocator"
	"contact-allocator/models"

	"github.com/stretchr/testify/assert"
)

func centerlessAgents(names ...string) []models.Agent {
	agents := make([]models.Agent, len(names))
	for i, n := range names {
		agents[i] = models.Agent{Name: n}
	}
	return agents
}

func TestAllocate_EvenSplitAcrossTiers(t *testing.T) {
	// Two contacts per tier, two agents: every tier splits 1/1, so the
	// total lands 3/3.
	contacts := []models.Contact{
		{Name: "Alice", Phone: "1111111111", Source: "Workshop", Priority: 1},
		{Name: "Bob", Phone: "2222222222", Source: "Website", Priority: 2},
		{Name: "Charlie", Phone: "3333333333", Source: "Workshop", Priority: 1},
		{Name: "David", Phone: "4444444444", Source: "Social Media", Priority: 3},
		{Name: "Eve", Phone: "5555555555", Source: "Website", Priority: 2},
		{Name: "Frank", Phone: "6666666666", Source: "Social Media", Priority: 3},
	}
	agents := centerlessAgents("Rahul", "Priya")

	result := allocator.Allocate(contacts, agents, 0)

	assert.Empty(t, result.Unallocated)
	assert.Equal(t, 6, result.Summary.Allocated)
	assert.Equal(t, 3, result.Summary.AgentBreakdown["Rahul"].Count)
	assert.Equal(t, 3, result.Summary.AgentBreakdown["Priya"].Count)

	// Priority-1 contacts are handed out before any priority-2/3 contact:
	// every agent's list is non-decreasing in priority and starts at tier 1.
	for _, a := range agents {
		assert.Equal(t, 1, a.AllocatedContacts[0].Priority, "agent %s", a.Name)
		for i := 1; i < len(a.AllocatedContacts); i++ {
			assert.GreaterOrEqual(t,
				a.AllocatedContacts[i].Priority,
				a.AllocatedContacts[i-1].Priority,
				"agent %s got a lower tier after a higher one", a.Name)
		}
	}

	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 2}, result.Summary.PriorityDistribution)
}

func TestAllocate_SevenContactsSplitFourThree(t *testing.T) {
	contacts := make([]models.Contact, 7)
	for i := range contacts {
		contacts[i] = models.Contact{
			Name:     fmt.Sprintf("Contact%d", i+1),
			Phone:    fmt.Sprintf("%010d", i+1),
			Priority: models.DefaultPriority,
		}
	}
	agents := centerlessAgents("Rahul", "Priya")

	result := allocator.Allocate(contacts, agents, 0)

	assert.Empty(t, result.Unallocated)
	counts := []int{
		result.Summary.AgentBreakdown["Rahul"].Count,
		result.Summary.AgentBreakdown["Priya"].Count,
	}
	// Maximally even: {4,3}, never {5,2}.
	assert.ElementsMatch(t, []int{4, 3}, counts)
}

func TestAllocate_CenterMismatchUnallocated(t *testing.T) {
	contacts := []models.Contact{
		{Name: "Alice", Phone: "1111111111", Center: "Mumbai", Priority: 1},
		{Name: "Bob", Phone: "2222222222", Center: "Delhi", Priority: 1},
		{Name: "Charlie", Phone: "3333333333", Center: "Bangalore", Priority: 1},
		{Name: "David", Phone: "4444444444", Center: "Mumbai", Priority: 2},
	}
	agents := []models.Agent{
		{Name: "Rahul", Center: "Mumbai"},
		{Name: "Priya", Center: "Delhi"},
	}

	result := allocator.Allocate(contacts, agents, 0)

	assert.Equal(t, 3, result.Summary.Allocated)
	assert.Len(t, result.Unallocated, 1)
	assert.Equal(t, "Charlie", result.Unallocated[0].Contact.Name)
	assert.Equal(t, "No agent with center 'Bangalore'", result.Unallocated[0].Reason)
}

func TestAllocate_CenterlessContactCenteredAgents(t *testing.T) {
	contacts := []models.Contact{
		{Name: "Alice", Phone: "1111111111", Priority: 1},
	}
	agents := []models.Agent{{Name: "Rahul", Center: "Mumbai"}}

	result := allocator.Allocate(contacts, agents, 0)

	assert.Len(t, result.Unallocated, 1)
	assert.Equal(t, "Unknown reason", result.Unallocated[0].Reason)
}

func TestAllocate_CapExhaustion(t *testing.T) {
	contacts := make([]models.Contact, 5)
	for i := range contacts {
		contacts[i] = models.Contact{
			Name:     fmt.Sprintf("Contact%d", i+1),
			Phone:    fmt.Sprintf("%010d", i+1),
			Priority: 1,
		}
	}
	agents := centerlessAgents("Rahul", "Priya")

	result := allocator.Allocate(contacts, agents, 2)

	assert.Equal(t, 4, result.Summary.Allocated)
	assert.Len(t, result.Unallocated, 1)
	assert.Equal(t, "Contact5", result.Unallocated[0].Contact.Name)
	assert.Equal(t, "All eligible agents at allocation cap (2)", result.Unallocated[0].Reason)
	assert.Equal(t, 2, result.Summary.AgentBreakdown["Rahul"].Count)
	assert.Equal(t, 2, result.Summary.AgentBreakdown["Priya"].Count)
}

// An unallocatable contact must not shift the rotation for the rest of its
// tier: the shared cursor only advances on assignment.
func TestAllocate_CursorHoldsOnUnallocated(t *testing.T) {
	contacts := []models.Contact{
		{Name: "Alice", Phone: "1111111111", Center: "Mumbai", Priority: 1},
		{Name: "Bob", Phone: "2222222222", Center: "Bangalore", Priority: 1},
		{Name: "Charlie", Phone: "3333333333", Center: "Mumbai", Priority: 1},
		{Name: "David", Phone: "4444444444", Center: "Mumbai", Priority: 1},
	}
	agents := []models.Agent{
		{Name: "Rahul", Center: "Mumbai"},
		{Name: "Priya", Center: "Mumbai"},
	}

	result := allocator.Allocate(contacts, agents, 0)

	assert.Len(t, result.Unallocated, 1)
	assert.Equal(t, "Bob", result.Unallocated[0].Contact.Name)

	rahul := names(agents[0].AllocatedContacts)
	priya := names(agents[1].AllocatedContacts)
	assert.Equal(t, []string{"Alice", "David"}, rahul)
	assert.Equal(t, []string{"Charlie"}, priya)
}

// P1 and P2: every phone key lands in exactly one place, and
// assigned + unallocated adds back up to the batch.
func TestAllocate_UniquenessAndConservation(t *testing.T) {
	var contacts []models.Contact
	for i := 0; i < 25; i++ {
		c := models.Contact{
			Name:     fmt.Sprintf("Contact%d", i+1),
			Phone:    fmt.Sprintf("%010d", i+1),
			Priority: 1 + i%4,
		}
		if i%5 == 0 {
			c.Center = "Bangalore" // nobody covers Bangalore
		} else {
			c.Center = "Mumbai"
		}
		contacts = append(contacts, c)
	}
	agents := []models.Agent{
		{Name: "Rahul", Center: "Mumbai"},
		{Name: "Priya", Center: "Mumbai"},
		{Name: "Arjun", Center: "Mumbai"},
	}

	result := allocator.Allocate(contacts, agents, 0)

	seen := make(map[string]int)
	for _, list := range result.Allocations {
		for _, c := range list {
			seen[c.Phone]++
		}
	}
	for _, u := range result.Unallocated {
		seen[u.Contact.Phone]++
	}
	for phone, count := range seen {
		assert.Equal(t, 1, count, "phone %s placed more than once", phone)
	}
	assert.Len(t, seen, len(contacts))
	assert.Equal(t, len(contacts), result.Summary.Allocated+result.Summary.Unallocated)
}

func TestAllocate_EmptyBatch(t *testing.T) {
	agents := centerlessAgents("Rahul")

	result := allocator.Allocate(nil, agents, 0)

	assert.Empty(t, result.Unallocated)
	assert.Equal(t, 0, result.Summary.TotalContacts)
	assert.Equal(t, 0, result.Summary.Allocated)
	assert.Empty(t, agents[0].AllocatedContacts)
}

// P6: the center rule is deterministic, so identical inputs allocate
// identically.
func TestAllocate_Deterministic(t *testing.T) {
	contacts := []models.Contact{
		{Name: "Alice", Phone: "1111111111", Center: "Mumbai", Priority: 1},
		{Name: "Bob", Phone: "2222222222", Center: "Mumbai", Priority: 2},
		{Name: "Charlie", Phone: "3333333333", Center: "Mumbai", Priority: 1},
	}
	agentsA := []models.Agent{{Name: "Rahul", Center: "Mumbai"}, {Name: "Priya", Center: "Mumbai"}}
	agentsB := []models.Agent{{Name: "Rahul", Center: "Mumbai"}, {Name: "Priya", Center: "Mumbai"}}

	first := allocator.Allocate(contacts, agentsA, 0)
	second := allocator.Allocate(contacts, agentsB, 0)

	assert.Equal(t, first, second)
}

func TestSummarize(t *testing.T) {
	agents := []models.Agent{
		{Name: "Rahul", Center: "Mumbai", AllocatedContacts: []models.Contact{
			{Name: "Alice", Phone: "1", Priority: 1},
			{Name: "Bob", Phone: "2", Priority: 2},
		}},
		{Name: "Priya", Center: "Delhi", AllocatedContacts: []models.Contact{
			{Name: "Charlie", Phone: "3", Priority: 1},
		}},
	}
	unallocated := []models.Unallocated{
		{Contact: models.Contact{Name: "David", Phone: "4", Priority: 1}, Reason: "No agent with center 'Bangalore'"},
	}

	summary := allocator.Summarize(4, agents, unallocated)

	assert.Equal(t, 4, summary.TotalContacts)
	assert.Equal(t, 3, summary.Allocated)
	assert.Equal(t, 1, summary.Unallocated)
	assert.Equal(t, models.AgentStats{Count: 2, Center: "Mumbai"}, summary.AgentBreakdown["Rahul"])
	assert.Equal(t, models.AgentStats{Count: 1, Center: "Delhi"}, summary.AgentBreakdown["Priya"])
	assert.Equal(t, map[int]int{1: 2, 2: 1}, summary.PriorityDistribution)
}

func names(contacts []models.Contact) []string {
	out := make([]string, len(contacts))
	for i, c := range contacts {
		out[i] = c.Name
	}
	return out
}
