package reconcile_test

import (
	"path/filepath"
	"testing"

	"contact-allocator/models"
	"contact-allocator/reconcile"
	"contact-allocator/workbook"

	"github.com/stretchr/testify/assert"
)

var skipSheets = []string{"All Contacts", "Agents", "Source Priorities", "Summary", "Unallocated"}

func TestFromSheets(t *testing.T) {
	sheets := []workbook.Sheet{
		{Name: "All Contacts", Rows: [][]string{{"Name", "Phone Number"}, {"Alice", "1111111111"}}},
		{Name: "Summary", Rows: [][]string{{"ALLOCATION SUMMARY"}}},
		{Name: "Rahul", Rows: [][]string{
			{"Name", "Phone Number"},
			{"Alice", "1111111111"},
			{"Bob", "2222222222.0"}, // export artifact, must normalize
		}},
		{Name: "Kiran", Rows: [][]string{
			{"Name", "Phone Number"},
			{"Charlie", "3333333333"},
		}},
	}
	current := []models.Agent{{Name: "Rahul"}}

	st := reconcile.FromSheets(sheets, skipSheets, current)

	assert.True(t, st.Incremental())
	assert.Len(t, st.AllocatedPhones, 3)
	assert.Contains(t, st.AllocatedPhones, "2222222222")
	assert.NotContains(t, st.AllocatedPhones, "2222222222.0")

	assert.Equal(t, []models.Contact{
		{Name: "Alice", Phone: "1111111111"},
		{Name: "Bob", Phone: "2222222222"},
	}, st.PriorAllocations["Rahul"])

	// Kiran is in the snapshot but not the current input.
	assert.Equal(t, []string{"Kiran"}, st.InactiveAgents)
	assert.Len(t, st.PriorAllocations["Kiran"], 1)
}

func TestFromSheets_MalformedRowsSkipped(t *testing.T) {
	sheets := []workbook.Sheet{
		{Name: "Rahul", Rows: [][]string{
			{"Name", "Phone Number"},
			{"OnlyName"},
			{"", "4444444444"},
			{"Alice", "  "},
			{"Bob", "2222222222"},
		}},
	}

	st := reconcile.FromSheets(sheets, skipSheets, []models.Agent{{Name: "Rahul"}})

	assert.Len(t, st.AllocatedPhones, 1)
	assert.Contains(t, st.AllocatedPhones, "2222222222")
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does_not_exist.xlsx")

	st, err := reconcile.LoadSnapshot(path, skipSheets, nil)

	assert.NoError(t, err)
	assert.False(t, st.Incremental())
	assert.Empty(t, st.AllocatedPhones)
	assert.Empty(t, st.InactiveAgents)
}

func TestFilterAllocated(t *testing.T) {
	st := reconcile.Empty()
	st.AllocatedPhones["2222222222"] = struct{}{}

	contacts := []models.Contact{
		{Name: "Alice", Phone: "1111111111"},
		{Name: "Bob", Phone: "2222222222"},
		{Name: "Charlie", Phone: "3333333333"},
	}

	fresh, already := reconcile.FilterAllocated(contacts, st)

	assert.Len(t, fresh, 2)
	for _, c := range fresh {
		assert.NotEqual(t, "2222222222", c.Phone)
	}
	assert.Len(t, already, 1)
	assert.Equal(t, "Bob", already[0].Name)
}

func TestFilterAllocated_EmptyState(t *testing.T) {
	contacts := []models.Contact{{Name: "Alice", Phone: "1111111111"}}

	fresh, already := reconcile.FilterAllocated(contacts, reconcile.Empty())

	assert.Equal(t, contacts, fresh)
	assert.Empty(t, already)
}
