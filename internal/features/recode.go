package features

import (
	"fmt"
	"math"

	"github.com/benefit-lab/uctakeup/internal/scenario"
)

// RecodeError reports a raw code outside a feature's closed domain where no
// catch-all bucket exists.
type RecodeError struct {
	Field string
	Code  int
}

func (e *RecodeError) Error() string {
	return fmt.Sprintf("recode: %s: out-of-domain code %d", e.Field, e.Code)
}

// Categorical feature levels. Each feature is a closed set; mapping
// functions are total over valid codes and fail loudly otherwise.
type (
	Citizenship string
	Disability  string
	Employment  string
	Education   string
	Gender      string
	Marital     string
	Tenure      string
	YesNo       string
)

const (
	CitizenUK    Citizenship = "UK"
	CitizenOther Citizenship = "Other"

	NotDisabled Disability = "Not disabled"
	Disabled    Disability = "Disabled"

	Employed        Employment = "Employed"
	Unemployed      Employment = "Unemployed"
	Inactive        Employment = "Inactive"
	Retired         Employment = "Retired"
	SickOrDisabled  Employment = "Sick or disabled"
	EmploymentOther Employment = "Other"

	DegreeOrCollege Education = "Degree or College"
	Secondary       Education = "Secondary"
	Tertiary        Education = "Tertiary"
	EducationNone   Education = "None"

	Female Gender = "Female"
	Male   Gender = "Male"

	Single    Marital = "Single"
	Married   Marital = "Married"
	Separated Marital = "Separated"
	Divorced  Marital = "Divorced"
	Widowed   Marital = "Widowed"

	Mortgaged   Tenure = "Mortgaged"
	Outright    Tenure = "Outright"
	Rented      Tenure = "Rented"
	RentFree    Tenure = "Free"
	TenureOther Tenure = "Other"

	No  YesNo = "No"
	Yes YesNo = "Yes"
)

// IncomeCeiling caps monthly employment income before banding.
const IncomeCeiling = 3415.0

// ModelRow is one recoded person-level row. Raw codes are dropped; only the
// semantic feature set survives. Household-level response and composition
// fields are filled in by BuildModelTable.
type ModelRow struct {
	Year      int
	Person    int64
	Household int64

	Age           int
	Citizenship   Citizenship
	Disability    Disability
	Employment    Employment
	Student       int
	Education     Education
	Gender        Gender
	MaritalStatus Marital
	Region        string
	EmpLength     string
	SeekingWork   YesNo
	Children      string // household child count bucket: 0, 1, 2+
	Income        float64
	IZero         int     // income == 0
	ICap          int     // income at the ceiling
	ILevel        float64 // continuous income, zeroed at the cap
	IBand         string
	HousingTenure Tenure
	HouseResp     YesNo
	Caring        YesNo

	// Responses, household-aggregated (BuildModelTable).
	LBAIncome float64
	UCIncome  float64
	UCReceipt float64

	// Household employment composition (BuildModelTable).
	HHEmployed   string // 0, 1, 2+
	HHUnemployed string
	HHInactive   string
	InEmployedHH int
}

// Recode maps every combined person record to a ModelRow, dropping raw
// codes. children holds the per-household child counts from ChildCounts.
func Recode(persons []scenario.Person, children map[HouseholdKey]int) ([]ModelRow, error) {
	rows := make([]ModelRow, 0, len(persons))
	for _, p := range persons {
		r, err := recodeOne(p, children[HouseholdKey{Year: p.Year, Household: p.Household}])
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func recodeOne(p scenario.Person, nChildren int) (ModelRow, error) {
	r := ModelRow{
		Year:      p.Year,
		Person:    p.ID,
		Household: p.Household,
		Age:       p.Age,
		LBAIncome: p.LBAIncome,
		UCIncome:  p.UCIncome,
		UCReceipt: p.UCReceipt,
	}

	if p.Nationality == 1 {
		r.Citizenship = CitizenUK
	} else {
		r.Citizenship = CitizenOther
	}

	var err error
	if r.Disability, err = recodeDisability(p.Disability); err != nil {
		return r, err
	}
	r.Employment = recodeEmployment(p.Employment)
	if p.Employment == 6 {
		r.Student = 1
	}
	r.Education = recodeEducation(p.Education)
	if r.Gender, err = recodeGender(p.Gender); err != nil {
		return r, err
	}
	if r.MaritalStatus, err = recodeMarital(p.Marital); err != nil {
		return r, err
	}
	if r.Region, err = RegionLetter(p.Region); err != nil {
		return r, err
	}
	r.EmpLength = empLengthBucket(p.Employment, p.MonthsWork)
	if r.SeekingWork, err = recodeYesNo("seeking_work", p.Seeking); err != nil {
		return r, err
	}
	r.Children = CountBucket(nChildren)

	r.Income = math.Min(p.Income, IncomeCeiling)
	if r.Income == 0 {
		r.IZero = 1
	}
	if r.Income == IncomeCeiling {
		r.ICap = 1
	}
	r.ILevel = r.Income * float64(1-r.ICap)
	r.IBand = incomeBand(r.Income)

	r.HousingTenure = recodeTenure(p.Tenure)
	if r.HouseResp, err = recodeYesNo("household_responsibility", p.HouseResp); err != nil {
		return r, err
	}
	// Evaluated on the row's own code; a zero caring-responsibility code
	// means the person has no caring duties.
	if p.Caring == 0 {
		r.Caring = No
	} else {
		r.Caring = Yes
	}

	return r, nil
}

func recodeDisability(code int) (Disability, error) {
	switch code {
	case 0:
		return NotDisabled, nil
	case 1:
		return Disabled, nil
	}
	return "", &RecodeError{Field: "disability", Code: code}
}

func recodeEmployment(code int) Employment {
	switch code {
	case 1, 2, 3:
		return Employed
	case 5:
		return Unemployed
	case 6, 7:
		return Inactive
	case 4:
		return Retired
	case 8:
		return SickOrDisabled
	}
	return EmploymentOther
}

func recodeEducation(code int) Education {
	switch code {
	case 4:
		return DegreeOrCollege
	case 3, 2:
		return Secondary
	case 5:
		return Tertiary
	}
	return EducationNone
}

func recodeGender(code int) (Gender, error) {
	switch code {
	case 0:
		return Female, nil
	case 1:
		return Male, nil
	}
	return "", &RecodeError{Field: "gender", Code: code}
}

func recodeMarital(code int) (Marital, error) {
	if code == 0 {
		code = 1
	}
	switch code {
	case 1:
		return Single, nil
	case 2:
		return Married, nil
	case 3:
		return Separated, nil
	case 4:
		return Divorced, nil
	case 5:
		return Widowed, nil
	}
	return "", &RecodeError{Field: "marital_status", Code: code}
}

const regionLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RegionLetter maps a raw region code to its letter label. Codes below 3
// shift by two positions, the rest by one; the resulting collision encodes
// a historical renumbering gap and is preserved exactly.
func RegionLetter(code int) (string, error) {
	var i int
	if code < 3 {
		i = code + 2
	} else {
		i = code + 1
	}
	if code < 0 || i >= len(regionLetters) {
		return "", &RecodeError{Field: "region", Code: code}
	}
	return string(regionLetters[i]), nil
}

func empLengthBucket(status int, months float64) string {
	if status >= 4 && status <= 8 {
		return "Not in employment"
	}
	switch {
	case months < 12:
		return "<12 months"
	case months < 24:
		return "12-23 months"
	case months < 60:
		return "24-59 months"
	case months < 120:
		return "60-119 months"
	case months < 240:
		return "120-239 months"
	}
	return ">=240 months"
}

func recodeYesNo(field string, code int) (YesNo, error) {
	switch code {
	case 0:
		return No, nil
	case 1:
		return Yes, nil
	}
	return "", &RecodeError{Field: field, Code: code}
}

func recodeTenure(code int) Tenure {
	switch code {
	case 1:
		return Mortgaged
	case 2:
		return Outright
	case 3, 4, 5:
		return Rented
	case 6:
		return RentFree
	}
	return TenureOther
}

// incomeBand buckets capped income into left-closed intervals.
func incomeBand(income float64) string {
	switch {
	case income < 1:
		return "0"
	case income < 500:
		return "1-499"
	case income < 1000:
		return "500-999"
	case income < 2000:
		return "1000-1999"
	case income < 3000:
		return "2000-2999"
	}
	return "3000+"
}

// CountBucket collapses a household member count to {0, 1, 2+}.
func CountBucket(n int) string {
	switch {
	case n <= 0:
		return "0"
	case n == 1:
		return "1"
	}
	return "2+"
}
