package models

import (
	"testing"
	"time"

	"snapstudio-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func birthDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClientValidateExpectingNeedsDueDate(t *testing.T) {
	client := Client{
		Name:       "Meera Patel",
		FamilyType: FamilyExpecting,
	}

	err := client.Validate()
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Violations, 1)
	assert.Equal(t, "due_date", vErr.Violations[0].Field)

	due := birthDate(2024, time.September, 1)
	client.DueDate = &due
	assert.NoError(t, client.Validate())
}

func TestClientValidateBornFamiliesNeedChildren(t *testing.T) {
	client := Client{
		Name:       "Priya Shah",
		FamilyType: FamilyNewborn,
	}

	err := client.Validate()
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "children", vErr.Violations[0].Field)

	// A child without a birth date is still invalid
	client.Children = ChildList{{Name: "Aarav"}}
	err = client.Validate()
	require.ErrorAs(t, err, &vErr)

	client.Children[0].BirthDate = birthDate(2024, time.March, 1)
	assert.NoError(t, client.Validate())
}

func TestClientValidateCollectsEveryViolation(t *testing.T) {
	client := Client{
		Name:       "",
		FamilyType: "friends",
	}

	err := client.Validate()
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)

	fields := make(map[string]bool)
	for _, violation := range vErr.Violations {
		fields[violation.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["family_type"])
}

func TestRecordBirthTransitionsExpectingToNewborn(t *testing.T) {
	due := birthDate(2024, time.September, 1)
	client := Client{
		Name:       "Meera Patel",
		FamilyType: FamilyExpecting,
		DueDate:    &due,
	}

	client.RecordBirth(Child{Name: "Zara", BirthDate: birthDate(2024, time.August, 28)})

	assert.Equal(t, FamilyNewborn, client.FamilyType)
	assert.Nil(t, client.DueDate)
	require.Len(t, client.Children, 1)
	assert.Equal(t, "Zara", client.Children[0].Name)
	assert.NoError(t, client.Validate())
}

func TestRecordBirthOnBornFamilyJustAddsChild(t *testing.T) {
	client := Client{
		Name:       "Ananya Rao",
		FamilyType: FamilyBaby,
		Children:   ChildList{{Name: "Isha", BirthDate: birthDate(2023, time.June, 1)}},
	}

	client.RecordBirth(Child{Name: "Vihaan", BirthDate: birthDate(2024, time.May, 10)})

	assert.Equal(t, FamilyBaby, client.FamilyType)
	assert.Equal(t, []string{"Isha", "Vihaan"}, client.ChildrenNames())
}
