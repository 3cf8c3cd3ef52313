package parser

import (
	"strconv"
	"strings"

	"contact-allocator/models"
)

// Synthetic header rows prepended to the retained raw data so the
// pass-through output sheets always carry column names.
var (
	contactsHeader   = []string{"Name", "Phone Number", "Center", "Source of Interest"}
	agentsHeader     = []string{"Name", "Center"}
	prioritiesHeader = []string{"Source of Interest", "Priority"}
)

// NormalizePhone undoes the ".0" artifact spreadsheet exports add to numeric
// cells. This is a plain substring removal, not a numeric reformat: every
// ".0" occurrence is stripped, wherever it appears.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), ".0", "")
}

// Contacts parses contact records from raw sheet rows.
// Rows with fewer than 2 cells, or an empty name or phone after trimming,
// are dropped. Every fetched row is retained verbatim in the returned raw
// data (under a synthetic header) for pass-through output.
func Contacts(rows [][]string) ([]models.Contact, [][]string) {
	raw := make([][]string, 0, len(rows)+1)
	raw = append(raw, contactsHeader)

	var contacts []models.Contact
	for i, row := range rows {
		raw = append(raw, row)

		if len(row) < 2 {
			continue
		}

		name := strings.TrimSpace(row[0])
		phone := NormalizePhone(row[1])
		if name == "" || phone == "" {
			continue
		}

		c := models.Contact{
			Name:     name,
			Phone:    phone,
			RowIndex: i + 1,
		}
		if len(row) > 2 {
			c.Center = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			c.Source = strings.TrimSpace(row[3])
		}
		contacts = append(contacts, c)
	}

	return contacts, raw
}

// Agents parses agent records from raw sheet rows. Rows with an empty name
// are dropped; the center column is optional.
func Agents(rows [][]string) ([]models.Agent, [][]string) {
	raw := make([][]string, 0, len(rows)+1)
	raw = append(raw, agentsHeader)

	var agents []models.Agent
	for _, row := range rows {
		raw = append(raw, row)

		if len(row) < 1 {
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}

		a := models.Agent{Name: name}
		if len(row) > 1 {
			a.Center = strings.TrimSpace(row[1])
		}
		agents = append(agents, a)
	}

	return agents, raw
}

// Priorities parses the source→priority mapping. Rows with fewer than 2
// cells are dropped; a non-integer priority falls back to the default
// sentinel and the 1-based row index is reported so the caller can warn.
// A later rule for the same source overwrites an earlier one. An empty tab
// yields an empty map, never an error.
func Priorities(rows [][]string) (map[string]int, [][]string, []int) {
	raw := make([][]string, 0, len(rows)+1)
	raw = append(raw, prioritiesHeader)

	rules := make(map[string]int)
	var invalidRows []int
	for i, row := range rows {
		raw = append(raw, row)

		if len(row) < 2 {
			continue
		}

		source := strings.TrimSpace(row[0])
		priority, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			priority = models.DefaultPriority
			invalidRows = append(invalidRows, i+1)
		}

		if source != "" {
			rules[source] = priority
		}
	}

	return rules, raw, invalidRows
}
