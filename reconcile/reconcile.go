// Package reconcile carries allocation state across runs. A prior output
// workbook is the only persisted format: its per-agent sheets yield the set
// of phone keys already handed out, so an incremental run never re-offers
// them to the allocation engine, and agents that have since left the input
// keep their sheets untouched as inactive agents.
package reconcile

import (
	"os"
	"strings"

	"contact-allocator/models"
	"contact-allocator/parser"
	"contact-allocator/workbook"
)

// State is the reconciliation result of loading a prior snapshot.
type State struct {
	// AllocatedPhones holds every phone key found in the snapshot.
	AllocatedPhones map[string]struct{}
	// PriorAllocations maps agent name to the contacts already on its sheet.
	PriorAllocations map[string][]models.Contact
	// InactiveAgents are snapshot agents missing from the current input,
	// in snapshot sheet order.
	InactiveAgents []string
}

// Empty is the state of a fresh run: nothing allocated, nobody inactive.
func Empty() *State {
	return &State{
		AllocatedPhones:  make(map[string]struct{}),
		PriorAllocations: make(map[string][]models.Contact),
	}
}

// Incremental reports whether the snapshot contained any prior allocations.
func (s *State) Incremental() bool { return len(s.AllocatedPhones) > 0 }

// LoadSnapshot reads the prior output workbook at path. A missing file is a
// fresh run, not an error. skipSheets names the pass-through, summary and
// unallocated sheets; everything else is treated as a per-agent sheet.
func LoadSnapshot(path string, skipSheets []string, agents []models.Agent) (*State, error) {
	if _, err := os.Stat(path); err != nil {
		return Empty(), nil
	}
	sheets, err := workbook.ReadSheets(path)
	if err != nil {
		return nil, err
	}
	return FromSheets(sheets, skipSheets, agents), nil
}

// FromSheets builds reconciliation state from snapshot sheets. Agent sheets
// are (Name, Phone Number) pairs under a header row; phones are normalized
// exactly like fresh input so keys compare equal across runs.
func FromSheets(sheets []workbook.Sheet, skipSheets []string, agents []models.Agent) *State {
	skip := make(map[string]bool, len(skipSheets))
	for _, name := range skipSheets {
		skip[name] = true
	}
	active := make(map[string]bool, len(agents))
	for i := range agents {
		active[agents[i].Name] = true
	}

	st := Empty()
	for _, sheet := range sheets {
		if skip[sheet.Name] {
			continue
		}

		rows := sheet.Rows
		if len(rows) > 0 {
			rows = rows[1:] // header
		}

		contacts := make([]models.Contact, 0, len(rows))
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			name := strings.TrimSpace(row[0])
			phone := parser.NormalizePhone(row[1])
			if name == "" || phone == "" {
				continue
			}
			contacts = append(contacts, models.Contact{Name: name, Phone: phone})
			st.AllocatedPhones[phone] = struct{}{}
		}

		st.PriorAllocations[sheet.Name] = contacts
		if !active[sheet.Name] {
			st.InactiveAgents = append(st.InactiveAgents, sheet.Name)
		}
	}

	return st
}

// FilterAllocated partitions the batch into contacts not yet seen in the
// snapshot and contacts already allocated in a prior run. Only the first
// slice may reach the allocation engine.
func FilterAllocated(contacts []models.Contact, st *State) (fresh, already []models.Contact) {
	for _, c := range contacts {
		if _, ok := st.AllocatedPhones[c.Phone]; ok {
			already = append(already, c)
		} else {
			fresh = append(fresh, c)
		}
	}
	return fresh, already
}
