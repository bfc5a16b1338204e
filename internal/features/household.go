package features

import (
	"math"

	"github.com/benefit-lab/uctakeup/internal/scenario"
)

// HouseholdKey identifies one household within one simulated year.
type HouseholdKey struct {
	Year      int
	Household int64
}

// childAge is the exclusive upper bound for counting a member as a child.
const childAge = 16

// ChildCounts groups combined person records by (year, idhh) and counts
// members under 16. The count is broadcast to every member at recode time;
// row order within a household does not affect it.
func ChildCounts(persons []scenario.Person) map[HouseholdKey]int {
	counts := make(map[HouseholdKey]int)
	for _, p := range persons {
		k := HouseholdKey{Year: p.Year, Household: p.Household}
		if p.Age < childAge {
			counts[k]++
		} else if _, ok := counts[k]; !ok {
			counts[k] = 0
		}
	}
	return counts
}

// hhAggregate accumulates the household-level response and composition
// figures re-derived from recoded rows.
type hhAggregate struct {
	lbaIncome  float64
	ucIncome   float64
	ucReceipt  float64
	hasUC      bool
	employed   int
	unemployed int
	inactive   int
}

func aggregateHouseholds(rows []ModelRow) map[HouseholdKey]*hhAggregate {
	aggs := make(map[HouseholdKey]*hhAggregate)
	for _, r := range rows {
		k := HouseholdKey{Year: r.Year, Household: r.Household}
		a, ok := aggs[k]
		if !ok {
			a = &hhAggregate{}
			aggs[k] = a
		}

		a.lbaIncome += r.LBAIncome
		// UC fields are NaN for persons absent from the UC scenario; the
		// max skips them so a single matched member still decides receipt.
		if !math.IsNaN(r.UCIncome) {
			if !a.hasUC || r.UCIncome > a.ucIncome {
				a.ucIncome = r.UCIncome
			}
			if r.UCReceipt > a.ucReceipt {
				a.ucReceipt = r.UCReceipt
			}
			a.hasUC = true
		}

		switch r.Employment {
		case Employed:
			a.employed++
		case Unemployed:
			a.unemployed++
		case Inactive:
			a.inactive++
		}
	}
	return aggs
}
