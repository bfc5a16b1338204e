package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelRow is a pre-aggregation recoded row with person-level responses.
func modelRow(hh int64, age int, emp Employment, lba, uc, receipt float64) ModelRow {
	return ModelRow{
		Year: 2020, Person: int64(age), Household: hh,
		Age: age, Employment: emp,
		LBAIncome: lba, UCIncome: uc, UCReceipt: receipt,
	}
}

func TestBuildModelTableAggregatesHousehold(t *testing.T) {
	rows := []ModelRow{
		modelRow(1, 40, Employed, 100, 80, 0),
		modelRow(1, 38, Unemployed, 50, 120, 1),
		modelRow(1, 10, Inactive, 25, 60, 0), // child: contributes, then filtered
	}

	out := BuildModelTable(rows)
	require.Len(t, out, 2) // the 10-year-old is filtered out

	for _, r := range out {
		assert.Equal(t, 175.0, r.LBAIncome) // sum over all members
		assert.Equal(t, 120.0, r.UCIncome)  // max over all members
		assert.Equal(t, 1.0, r.UCReceipt)   // any member receiving marks the household
		assert.Equal(t, "1", r.HHEmployed)
		assert.Equal(t, "1", r.HHUnemployed)
		assert.Equal(t, "1", r.HHInactive)
	}
}

func TestBuildModelTableWorkingAgeFilter(t *testing.T) {
	var rows []ModelRow
	for _, age := range []int{17, 18, 40, 65, 66} {
		rows = append(rows, modelRow(int64(age), age, Employed, 0, 0, 0))
	}

	out := BuildModelTable(rows)
	ages := make([]int, len(out))
	for i, r := range out {
		ages[i] = r.Age
	}
	assert.Equal(t, []int{18, 40, 65}, ages)
}

func TestBuildModelTablePersonInEmployedHousehold(t *testing.T) {
	rows := []ModelRow{
		modelRow(1, 40, Employed, 0, 0, 0),
		modelRow(1, 39, Unemployed, 0, 0, 0),
		modelRow(2, 50, Retired, 0, 0, 0),
	}

	out := BuildModelTable(rows)
	require.Len(t, out, 3)
	assert.Equal(t, 1, out[0].InEmployedHH) // employed person in employed household
	assert.Equal(t, 0, out[1].InEmployedHH) // not employed themselves
	assert.Equal(t, 0, out[2].InEmployedHH) // household has no employed member
}

func TestBuildModelTableEmploymentCountBuckets(t *testing.T) {
	rows := []ModelRow{
		modelRow(1, 30, Employed, 0, 0, 0),
		modelRow(1, 31, Employed, 0, 0, 0),
		modelRow(1, 32, Employed, 0, 0, 0),
		modelRow(1, 33, Retired, 0, 0, 0),
	}

	out := BuildModelTable(rows)
	require.NotEmpty(t, out)
	for _, r := range out {
		assert.Equal(t, "2+", r.HHEmployed)
		assert.Equal(t, "0", r.HHUnemployed)
		assert.Equal(t, "0", r.HHInactive)
		assert.Contains(t, []string{"0", "1", "2+"}, r.HHEmployed)
	}
}

func TestBuildModelTableHouseholdFieldsIdenticalAcrossMembers(t *testing.T) {
	rows := []ModelRow{
		modelRow(1, 30, Employed, 10, 5, 0),
		modelRow(1, 45, Inactive, 20, 9, 1),
		modelRow(1, 60, Unemployed, 30, 2, 0),
	}

	out := BuildModelTable(rows)
	require.Len(t, out, 3)
	first := out[0]
	for _, r := range out[1:] {
		assert.Equal(t, first.LBAIncome, r.LBAIncome)
		assert.Equal(t, first.UCIncome, r.UCIncome)
		assert.Equal(t, first.UCReceipt, r.UCReceipt)
		assert.Equal(t, first.HHEmployed, r.HHEmployed)
		assert.Equal(t, first.HHUnemployed, r.HHUnemployed)
		assert.Equal(t, first.HHInactive, r.HHInactive)
	}
}

func TestBuildModelTableDropsHouseholdsWithoutResponse(t *testing.T) {
	rows := []ModelRow{
		modelRow(1, 40, Employed, 10, math.NaN(), math.NaN()),
		modelRow(2, 40, Employed, 10, 5, 1),
	}

	out := BuildModelTable(rows)
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].Household)
}
