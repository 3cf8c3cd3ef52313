package formatter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"contact-allocator/models"
)

// maxUnallocatedShown caps how many unallocated contacts the text report lists.
const maxUnallocatedShown = 10

// IncrementalStats carries the extra numbers an incremental run reports.
type IncrementalStats struct {
	PreviouslyAllocated int
	InputDuplicates     int
	AlreadyAllocated    int
	// InactiveAgents maps a preserved agent name to its prior contact count.
	InactiveAgents map[string]int
}

// ReportData holds prepared allocation data used by all formatters
type ReportData struct {
	Summary     models.Summary
	Agents      []AgentLine
	Priorities  []PriorityLine
	Unallocated []models.Unallocated
	Incremental *IncrementalStats
}

// AgentLine is one row of the per-agent breakdown, sorted by name.
type AgentLine struct {
	Name   string
	Center string
	Count  int
}

// PriorityLine is one row of the priority distribution, ascending.
type PriorityLine struct {
	Priority int
	Count    int
}

// prepareReportData extracts and orders allocation data for formatting
func prepareReportData(result *models.AllocationResult, incr *IncrementalStats) *ReportData {
	data := &ReportData{
		Summary:     result.Summary,
		Unallocated: result.Unallocated,
		Incremental: incr,
	}

	for name, stats := range result.Summary.AgentBreakdown {
		data.Agents = append(data.Agents, AgentLine{Name: name, Center: stats.Center, Count: stats.Count})
	}
	sort.Slice(data.Agents, func(i, j int) bool { return data.Agents[i].Name < data.Agents[j].Name })

	for priority, count := range result.Summary.PriorityDistribution {
		data.Priorities = append(data.Priorities, PriorityLine{Priority: priority, Count: count})
	}
	sort.Slice(data.Priorities, func(i, j int) bool { return data.Priorities[i].Priority < data.Priorities[j].Priority })

	return data
}

// FormatText returns the text report of an allocation run. incr may be nil
// for fresh runs.
func FormatText(result *models.AllocationResult, incr *IncrementalStats) string {
	data := prepareReportData(result, incr)
	s := data.Summary
	var sb strings.Builder

	rule := strings.Repeat("=", 60)
	sb.WriteString(rule + "\n")
	if incr != nil {
		sb.WriteString("ALLOCATION SUMMARY (Incremental Mode)\n")
	} else {
		sb.WriteString("ALLOCATION SUMMARY\n")
	}
	sb.WriteString(rule + "\n")

	if incr != nil {
		sb.WriteString("\nInput Statistics:\n")
		fromSheet := s.TotalContacts + incr.AlreadyAllocated + incr.InputDuplicates
		sb.WriteString(fmt.Sprintf("  Contacts from input:          %d\n", fromSheet))
		if incr.InputDuplicates > 0 {
			sb.WriteString(fmt.Sprintf("  Duplicates removed:           %d\n", incr.InputDuplicates))
		}
		if incr.AlreadyAllocated > 0 {
			sb.WriteString(fmt.Sprintf("  Already allocated (skipped):  %d\n", incr.AlreadyAllocated))
		}
		sb.WriteString(fmt.Sprintf("  NEW contacts to allocate:     %d\n", s.TotalContacts))
		sb.WriteString("\nAllocation Results (NEW contacts only):\n")
	} else {
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("  Total Contacts:         %d\n", s.TotalContacts))
	sb.WriteString(fmt.Sprintf("  Successfully Allocated: %d\n", s.Allocated))
	sb.WriteString(fmt.Sprintf("  Unallocated:            %d\n", s.Unallocated))

	if incr != nil {
		sb.WriteString("\nCumulative Totals:\n")
		sb.WriteString(fmt.Sprintf("  Previously allocated:   %d\n", incr.PreviouslyAllocated))
		sb.WriteString(fmt.Sprintf("  Newly allocated:        %d\n", s.Allocated))
		sb.WriteString(fmt.Sprintf("  TOTAL allocated:        %d\n", incr.PreviouslyAllocated+s.Allocated))
	}

	sb.WriteString("\nPer-Agent Breakdown (NEW allocations):\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for _, a := range data.Agents {
		center := "(Any)"
		if a.Center != "" {
			center = fmt.Sprintf("(%s)", a.Center)
		}
		sb.WriteString(fmt.Sprintf("  %-20s %-15s %3d new contacts\n", a.Name, center, a.Count))
	}

	if len(data.Priorities) > 0 {
		sb.WriteString("\nPriority Distribution:\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for _, p := range data.Priorities {
			sb.WriteString(fmt.Sprintf("  Priority %3d: %3d contacts\n", p.Priority, p.Count))
		}
	}

	if len(data.Unallocated) > 0 {
		sb.WriteString(fmt.Sprintf("\n%d Unallocated Contacts:\n", len(data.Unallocated)))
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for i, u := range data.Unallocated {
			if i == maxUnallocatedShown {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(data.Unallocated)-maxUnallocatedShown))
				break
			}
			sb.WriteString(fmt.Sprintf("  %-20s %-15s - %s\n", u.Contact.Name, u.Contact.Phone, u.Reason))
		}
	}

	if incr != nil && len(incr.InactiveAgents) > 0 {
		sb.WriteString("\nInactive Agents (preserved in output):\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		names := make([]string, 0, len(incr.InactiveAgents))
		for name := range incr.InactiveAgents {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  %-20s %3d existing contacts (no new allocations)\n", name, incr.InactiveAgents[name]))
		}
	}

	sb.WriteString(rule + "\n")
	return sb.String()
}

// FormatJSON returns the JSON representation of the allocation result
func FormatJSON(result *models.AllocationResult) string {
	jsonBytes, _ := json.MarshalIndent(result, "", "  ")
	return string(jsonBytes)
}
