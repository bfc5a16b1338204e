package boost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benefit-lab/uctakeup/internal/features"
)

func sampleRow() features.ModelRow {
	return features.ModelRow{
		Year: 2020, Person: 1, Household: 1,
		Age:           40,
		Citizenship:   features.CitizenUK,
		Disability:    features.NotDisabled,
		Employment:    features.Employed,
		Education:     features.DegreeOrCollege,
		Gender:        features.Female,
		MaritalStatus: features.Married,
		Region:        "D",
		EmpLength:     "24-59 months",
		SeekingWork:   features.No,
		Children:      "1",
		Income:        1500, ILevel: 1500, IBand: "1000-1999",
		HousingTenure: features.Mortgaged,
		HouseResp:     features.Yes,
		Caring:        features.No,
		UCReceipt:     1,
		HHEmployed:    "1", HHUnemployed: "0", HHInactive: "0",
	}
}

func TestEncodeAlignsWithInput(t *testing.T) {
	rows := []features.ModelRow{sampleRow(), sampleRow(), sampleRow()}
	rows[1].UCReceipt = 0
	rows[2].Age = 25

	X, y := Encode(rows)
	require.Len(t, X, 3)
	require.Equal(t, []int{1, 0, 1}, y)

	// Stable width, same layout per row.
	assert.Equal(t, len(X[0]), len(X[1]))
	assert.Equal(t, len(X[0]), len(X[2]))
	assert.Equal(t, 40.0, X[0][0])
	assert.Equal(t, 25.0, X[2][0])
}

func TestEncodeOneHotExclusive(t *testing.T) {
	X, _ := Encode([]features.ModelRow{sampleRow()})

	// Citizenship occupies the two columns after age; exactly one is set.
	assert.Equal(t, []float64{1, 0}, X[0][1:3])

	// Swapping the level flips the pair.
	r := sampleRow()
	r.Citizenship = features.CitizenOther
	X2, _ := Encode([]features.ModelRow{r})
	assert.Equal(t, []float64{0, 1}, X2[0][1:3])
}
