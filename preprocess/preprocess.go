// Package preprocess cleans a parsed contact batch before allocation:
// phone-key deduplication and priority resolution. Neither step can fail;
// data-quality issues are returned as diagnostics for the caller to log.
package preprocess

import (
	"sort"

	"contact-allocator/models"
)

// PriorityStats reports how priorities were resolved across the batch.
type PriorityStats struct {
	// NoSource counts contacts with an empty source.
	NoSource int
	// UnknownSources lists distinct sources missing from the rules, sorted.
	UnknownSources []string
}

// Deduplicate drops contacts whose phone key was already seen, keeping the
// first occurrence. Input order is preserved; each dropped contact is
// reported as a Duplicate naming both the kept and the dropped record.
func Deduplicate(contacts []models.Contact) ([]models.Contact, []models.Duplicate) {
	seen := make(map[string]string, len(contacts))
	unique := make([]models.Contact, 0, len(contacts))
	var duplicates []models.Duplicate

	for _, c := range contacts {
		if kept, ok := seen[c.Phone]; ok {
			duplicates = append(duplicates, models.Duplicate{
				Phone:         c.Phone,
				KeptName:      kept,
				DuplicateName: c.Name,
			})
			continue
		}
		seen[c.Phone] = c.Name
		unique = append(unique, c)
	}

	return unique, duplicates
}

// AssignPriorities resolves every contact's priority from the source rules.
// Contacts with no source or an unmapped source get the default sentinel;
// after this step every contact has a defined priority.
func AssignPriorities(contacts []models.Contact, rules map[string]int) ([]models.Contact, PriorityStats) {
	var stats PriorityStats
	unknown := make(map[string]bool)

	out := make([]models.Contact, len(contacts))
	for i, c := range contacts {
		switch {
		case c.Source == "":
			c.Priority = models.DefaultPriority
			stats.NoSource++
		default:
			if p, ok := rules[c.Source]; ok {
				c.Priority = p
			} else {
				c.Priority = models.DefaultPriority
				unknown[c.Source] = true
			}
		}
		out[i] = c
	}

	for s := range unknown {
		stats.UnknownSources = append(stats.UnknownSources, s)
	}
	sort.Strings(stats.UnknownSources)

	return out, stats
}
