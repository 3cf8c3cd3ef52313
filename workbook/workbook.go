// Package workbook is the tabular boundary of the allocator: it renders an
// allocation run into an xlsx workbook and reads such workbooks back, both
// as the prior-run snapshot and as a local input source. The workbook layout
// is the only persisted state format: input pass-through sheets, a Summary
// sheet, one (Name, Phone Number) sheet per agent, and an Unallocated sheet
// when any contact could not be placed.
package workbook

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	alloerrors "contact-allocator/errors"
	"contact-allocator/models"
)

// Fixed output sheet names. Snapshot sheets with any other name (besides the
// configured input tabs) are treated as per-agent allocation sheets.
const (
	SummarySheet     = "Summary"
	UnallocatedSheet = "Unallocated"
)

var (
	agentHeader       = []string{"Name", "Phone Number"}
	unallocatedHeader = []string{"Name", "Phone Number", "Center", "Source", "Reason"}
)

// Sheet is one workbook sheet as raw string cells.
type Sheet struct {
	Name string
	Rows [][]string
}

// ReadSheets loads every sheet of a workbook, in workbook order.
func ReadSheets(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, alloerrors.ErrEmptyWorkbook
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, &alloerrors.SheetError{Tab: name, Err: err}
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// Output is everything the sink needs for one run. PriorAllocations and
// InactiveAgents come from the reconciler and are nil/empty on fresh runs.
type Output struct {
	ContactsTab   string
	AgentsTab     string
	PrioritiesTab string

	RawContacts   [][]string
	RawAgents     [][]string
	RawPriorities [][]string

	Agents      []models.Agent
	Unallocated []models.Unallocated
	Summary     models.Summary

	PriorAllocations map[string][]models.Contact
	InactiveAgents   []string
}

// Write renders the run to path, replacing any existing file. In incremental
// mode each agent sheet holds the prior contacts followed by the new ones,
// deduplicated by phone (first occurrence wins), and inactive agents keep
// their prior sheets untouched.
func Write(path string, out Output) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the first pass-through tab.
	if err := f.SetSheetName("Sheet1", out.ContactsTab); err != nil {
		return err
	}
	if err := writeRows(f, out.ContactsTab, out.RawContacts); err != nil {
		return err
	}
	if err := addSheet(f, out.AgentsTab, out.RawAgents); err != nil {
		return err
	}
	if err := addSheet(f, out.PrioritiesTab, out.RawPriorities); err != nil {
		return err
	}

	if err := addSheet(f, SummarySheet, summaryRows(out)); err != nil {
		return err
	}

	for i := range out.Agents {
		a := &out.Agents[i]
		contacts := a.AllocatedContacts
		if prior, ok := out.PriorAllocations[a.Name]; ok {
			contacts = mergeContacts(prior, contacts)
		}
		if err := addSheet(f, a.Name, contactRows(contacts)); err != nil {
			return err
		}
	}

	// Inactive agents from the snapshot are preserved verbatim.
	for _, name := range out.InactiveAgents {
		prior := out.PriorAllocations[name]
		if len(prior) == 0 {
			continue
		}
		if err := addSheet(f, name, contactRows(prior)); err != nil {
			return err
		}
	}

	if len(out.Unallocated) > 0 {
		rows := make([][]string, 0, len(out.Unallocated)+1)
		rows = append(rows, unallocatedHeader)
		for _, u := range out.Unallocated {
			rows = append(rows, []string{
				u.Contact.Name,
				u.Contact.Phone,
				u.Contact.Center,
				u.Contact.Source,
				u.Reason,
			})
		}
		if err := addSheet(f, UnallocatedSheet, rows); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// mergeContacts concatenates prior and new contacts, deduplicating by phone
// with the first occurrence kept.
func mergeContacts(prior, current []models.Contact) []models.Contact {
	seen := make(map[string]bool, len(prior)+len(current))
	merged := make([]models.Contact, 0, len(prior)+len(current))
	for _, c := range append(append([]models.Contact{}, prior...), current...) {
		if seen[c.Phone] {
			continue
		}
		seen[c.Phone] = true
		merged = append(merged, c)
	}
	return merged
}

func contactRows(contacts []models.Contact) [][]string {
	rows := make([][]string, 0, len(contacts)+1)
	rows = append(rows, agentHeader)
	for _, c := range contacts {
		rows = append(rows, []string{c.Name, c.Phone})
	}
	return rows
}

// summaryRows lays out the Summary sheet: run totals, the per-agent
// breakdown and the priority distribution as stacked key/value tables.
func summaryRows(out Output) [][]string {
	s := out.Summary
	rows := [][]string{
		{"ALLOCATION SUMMARY", "", ""},
		{"", "", ""},
		{"Metric", "Value", ""},
		{"Total Contacts", fmt.Sprintf("%d", s.TotalContacts), ""},
		{"Successfully Allocated", fmt.Sprintf("%d", s.Allocated), ""},
		{"Unallocated", fmt.Sprintf("%d", s.Unallocated), ""},
		{"Total Agents", fmt.Sprintf("%d", len(out.Agents)), ""},
		{"", "", ""},
		{"AGENT BREAKDOWN", "", ""},
		{"Agent", "Center", "Contacts Allocated"},
	}

	for i := range out.Agents {
		a := &out.Agents[i]
		center := a.Center
		if center == "" {
			center = "Any"
		}
		rows = append(rows, []string{a.Name, center, fmt.Sprintf("%d", a.AllocationCount())})
	}

	rows = append(rows,
		[]string{"", "", ""},
		[]string{"PRIORITY DISTRIBUTION", "", ""},
		[]string{"Priority", "Contacts", ""},
	)
	for _, p := range sortedPriorities(s.PriorityDistribution) {
		rows = append(rows, []string{
			fmt.Sprintf("Priority %d", p),
			fmt.Sprintf("%d", s.PriorityDistribution[p]),
			"",
		})
	}
	return rows
}

func sortedPriorities(distribution map[int]int) []int {
	priorities := make([]int, 0, len(distribution))
	for p := range distribution {
		priorities = append(priorities, p)
	}
	sort.Ints(priorities)
	return priorities
}

func addSheet(f *excelize.File, name string, rows [][]string) error {
	if _, err := f.NewSheet(name); err != nil {
		return &alloerrors.SheetError{Tab: name, Err: err}
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return &alloerrors.SheetError{Tab: sheet, Err: err}
		}
	}
	return nil
}
