package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
)

func testDepartments() []domainDepartment.Department {
	return []domainDepartment.Department{
		{ID: "d1", Name: "Sales", Position: 1},
		{ID: "d2", Name: "Support", Position: 2},
		{ID: "d3", Name: "Billing", Position: 3},
	}
}

func TestComposeMenu(t *testing.T) {
	morning := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	menu := ComposeMenu(morning, testDepartments())

	assert.Contains(t, menu, "Bom dia")
	assert.Contains(t, menu, "1 - Sales")
	assert.Contains(t, menu, "2 - Support")
	assert.Contains(t, menu, "3 - Billing")

	night := time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC)
	assert.Contains(t, ComposeMenu(night, testDepartments()), "Boa noite")
}

func TestComposeMenu_RespectsPositionOrder(t *testing.T) {
	shuffled := []domainDepartment.Department{
		{ID: "d3", Name: "Billing", Position: 3},
		{ID: "d1", Name: "Sales", Position: 1},
		{ID: "d2", Name: "Support", Position: 2},
	}
	menu := ComposeMenu(time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC), shuffled)

	assert.Contains(t, menu, "1 - Sales")
	assert.Contains(t, menu, "3 - Billing")
}

func TestSelectDepartment(t *testing.T) {
	departments := testDepartments()

	selected, ok := SelectDepartment("2", departments)
	require.True(t, ok)
	assert.Equal(t, "d2", selected.ID)

	_, ok = SelectDepartment("9", departments)
	assert.False(t, ok, "out-of-range reply selects nothing")

	_, ok = SelectDepartment("0", departments)
	assert.False(t, ok)

	_, ok = SelectDepartment("dois", departments)
	assert.False(t, ok)

	_, ok = SelectDepartment("", departments)
	assert.False(t, ok)

	// Whitespace around a valid digit is tolerated.
	selected, ok = SelectDepartment(" 1 ", departments)
	require.True(t, ok)
	assert.Equal(t, "d1", selected.ID)
}
