package scenario

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
)

// MissingScenarioError reports a year for which one of the two required
// policy scenarios has no file.
type MissingScenarioError struct {
	Year   int
	Policy Policy
}

func (e *MissingScenarioError) Error() string {
	return fmt.Sprintf("scenario: year %d has no %s scenario", e.Year, e.Policy)
}

// Person is one combined per-(year, idperson) record after joining the two
// policy scenarios. UCIncome and UCReceipt are NaN when the person has no
// row in the UC scenario (the join keeps every legacy-scenario person).
type Person struct {
	Year        int
	ID          int64   // idperson
	Household   int64   // idhh
	Age         int     // dag
	Gender      int     // dgn
	Disability  int     // ddi
	Nationality int     // dcz, 1 = UK
	Employment  int     // les status code
	Education   int     // deh category code
	Marital     int     // dms
	Region      int     // drgn
	MonthsWork  float64 // liwwh, months in current employment
	Seeking     int     // lsw
	HouseResp   int     // dhr
	Caring      int     // dcr
	Tenure      int     // dtn
	Income      float64 // yem, monthly employment income

	LBAIncome float64
	UCIncome  float64
	UCReceipt float64
}

// Income component columns per policy scenario.
var (
	ucCols  = []string{"idperson", "bun", "bsauc", "brduc"}
	lbaCols = []string{
		"idperson", "idhh", "dag", "dgn", "ddi", "dcz", "les", "deh", "dms",
		"drgn", "liwwh", "lsw", "dhr", "dcr", "dtn", "yem",
		"bun", "bsa", "bho", "brd",
	}
)

// ucDerived carries the per-person fields kept from the UC scenario.
type ucDerived struct {
	income  float64
	receipt float64
}

// Merge joins the two policy scenarios for every year present in tables.
// For each year the UC scenario contributes uc_income and uc_receipt; the
// legacy scenario contributes every demographic column plus lba_income.
// Output is sorted by (year, idperson).
func Merge(tables map[Key]*Table) ([]Person, error) {
	years := make(map[int]bool)
	for k := range tables {
		years[k.Year] = true
	}
	sorted := make([]int, 0, len(years))
	for y := range years {
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)

	var out []Person
	for _, year := range sorted {
		uc, ok := tables[Key{Year: year, Policy: PolicyUC}]
		if !ok {
			return nil, &MissingScenarioError{Year: year, Policy: PolicyUC}
		}
		lba, ok := tables[Key{Year: year, Policy: PolicyLBA}]
		if !ok {
			return nil, &MissingScenarioError{Year: year, Policy: PolicyLBA}
		}

		persons, err := mergeYear(year, uc, lba)
		if err != nil {
			return nil, err
		}
		out = append(out, persons...)

		zap.L().Info("merged scenarios",
			zap.Int("year", year),
			zap.Int("persons", len(persons)),
		)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func mergeYear(year int, uc, lba *Table) ([]Person, error) {
	if err := uc.Require(ucCols...); err != nil {
		return nil, err
	}
	if err := lba.Require(lbaCols...); err != nil {
		return nil, err
	}

	// UC scenario: keep only (idperson, uc_income, uc_receipt).
	derived := make(map[int64]ucDerived, len(uc.Rows))
	for _, row := range uc.Rows {
		id, err := uc.Int64(row, "idperson")
		if err != nil {
			return nil, err
		}
		bun, err := uc.Float(row, "bun")
		if err != nil {
			return nil, err
		}
		bsauc, err := uc.Float(row, "bsauc")
		if err != nil {
			return nil, err
		}
		brduc, err := uc.Float(row, "brduc")
		if err != nil {
			return nil, err
		}
		d := ucDerived{income: bun + bsauc}
		if bsauc-brduc > 0 {
			d.receipt = 1
		}
		derived[id] = d
	}

	// Legacy scenario: every row survives the join.
	persons := make([]Person, 0, len(lba.Rows))
	for _, row := range lba.Rows {
		p, err := parsePerson(year, lba, row)
		if err != nil {
			return nil, err
		}
		if d, ok := derived[p.ID]; ok {
			p.UCIncome = d.income
			p.UCReceipt = d.receipt
		} else {
			p.UCIncome = math.NaN()
			p.UCReceipt = math.NaN()
		}
		persons = append(persons, p)
	}
	return persons, nil
}

func parsePerson(year int, t *Table, row []string) (Person, error) {
	var p Person
	p.Year = year

	var err error
	if p.ID, err = t.Int64(row, "idperson"); err != nil {
		return p, err
	}
	if p.Household, err = t.Int64(row, "idhh"); err != nil {
		return p, err
	}
	ints := []struct {
		col string
		dst *int
	}{
		{"dag", &p.Age},
		{"dgn", &p.Gender},
		{"ddi", &p.Disability},
		{"dcz", &p.Nationality},
		{"les", &p.Employment},
		{"deh", &p.Education},
		{"dms", &p.Marital},
		{"drgn", &p.Region},
		{"lsw", &p.Seeking},
		{"dhr", &p.HouseResp},
		{"dcr", &p.Caring},
		{"dtn", &p.Tenure},
	}
	for _, c := range ints {
		if *c.dst, err = t.Int(row, c.col); err != nil {
			return p, err
		}
	}
	if p.MonthsWork, err = t.Float(row, "liwwh"); err != nil {
		return p, err
	}
	if p.Income, err = t.Float(row, "yem"); err != nil {
		return p, err
	}

	bun, err := t.Float(row, "bun")
	if err != nil {
		return p, err
	}
	bsa, err := t.Float(row, "bsa")
	if err != nil {
		return p, err
	}
	bho, err := t.Float(row, "bho")
	if err != nil {
		return p, err
	}
	brd, err := t.Float(row, "brd")
	if err != nil {
		return p, err
	}
	p.LBAIncome = bun + bsa + bho - brd
	return p, nil
}
