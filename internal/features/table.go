package features

import (
	"go.uber.org/zap"
)

// Working-age bounds, both exclusive: the model covers ages 18 through 65.
const (
	minAgeExcl = 17
	maxAgeExcl = 66
)

// BuildModelTable re-aggregates recoded rows to household level for the
// response variables, filters to the working-age population, and derives
// the household employment-composition features.
//
// Per (year, idhh): lba_income is the member sum, uc_income and uc_receipt
// the member max (the household receives UC if any member does). Counts of
// Employed/Unemployed/Inactive members broadcast to every member as
// {0,1,2+} buckets.
//
// Households with no member in the UC scenario have no defined receipt
// response; their rows are dropped with a logged count.
func BuildModelTable(rows []ModelRow) []ModelRow {
	aggs := aggregateHouseholds(rows)

	out := make([]ModelRow, 0, len(rows))
	noResponse := 0
	for _, r := range rows {
		if r.Age <= minAgeExcl || r.Age >= maxAgeExcl {
			continue
		}
		a := aggs[HouseholdKey{Year: r.Year, Household: r.Household}]
		if !a.hasUC {
			noResponse++
			continue
		}

		r.LBAIncome = a.lbaIncome
		r.UCIncome = a.ucIncome
		r.UCReceipt = a.ucReceipt

		if r.Employment == Employed && a.employed > 0 {
			r.InEmployedHH = 1
		}
		r.HHEmployed = CountBucket(a.employed)
		r.HHUnemployed = CountBucket(a.unemployed)
		r.HHInactive = CountBucket(a.inactive)

		out = append(out, r)
	}

	log := zap.L()
	if noResponse > 0 {
		log.Warn("dropped rows with no receipt response", zap.Int("rows", noResponse))
	}
	log.Info("built modelling table",
		zap.Int("recoded_rows", len(rows)),
		zap.Int("working_age_rows", len(out)),
	)
	return out
}
