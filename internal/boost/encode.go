package boost

import (
	"github.com/benefit-lab/uctakeup/internal/features"
)

// Categorical level orderings used for one-hot encoding. Fixed here so the
// design matrix layout is stable across runs.
var (
	citizenshipLevels = []features.Citizenship{features.CitizenUK, features.CitizenOther}
	disabilityLevels  = []features.Disability{features.NotDisabled, features.Disabled}
	employmentLevels  = []features.Employment{
		features.Employed, features.Unemployed, features.Inactive,
		features.Retired, features.SickOrDisabled, features.EmploymentOther,
	}
	educationLevels = []features.Education{
		features.DegreeOrCollege, features.Secondary, features.Tertiary, features.EducationNone,
	}
	genderLevels  = []features.Gender{features.Female, features.Male}
	maritalLevels = []features.Marital{
		features.Single, features.Married, features.Separated, features.Divorced, features.Widowed,
	}
	tenureLevels = []features.Tenure{
		features.Mortgaged, features.Outright, features.Rented, features.RentFree, features.TenureOther,
	}
	yesNoLevels = []features.YesNo{features.No, features.Yes}

	regionLevels = []string{
		"C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N",
	}
	empLengthLevels = []string{
		"Not in employment", "<12 months", "12-23 months", "24-59 months",
		"60-119 months", "120-239 months", ">=240 months",
	}
	countLevels = []string{"0", "1", "2+"}
	incomeBands = []string{"0", "1-499", "500-999", "1000-1999", "2000-2999", "3000+"}
)

// Encode turns model rows into a numeric design matrix and 0/1 response
// vector for the classifier: one-hot columns per categorical level plus the
// numeric age, income indicators and continuous income. Output rows align
// index-for-index with the input, so resampling plans built over the
// modelling table apply directly to the matrix.
func Encode(rows []features.ModelRow) (X [][]float64, y []int) {
	X = make([][]float64, len(rows))
	y = make([]int, len(rows))
	for i, r := range rows {
		X[i] = encodeRow(r)
		y[i] = int(r.UCReceipt)
	}
	return X, y
}

func encodeRow(r features.ModelRow) []float64 {
	v := make([]float64, 0, 64)
	v = append(v, float64(r.Age))
	v = oneHot(v, string(r.Citizenship), levelStrings(citizenshipLevels))
	v = oneHot(v, string(r.Disability), levelStrings(disabilityLevels))
	v = oneHot(v, string(r.Employment), levelStrings(employmentLevels))
	v = append(v, float64(r.Student))
	v = oneHot(v, string(r.Education), levelStrings(educationLevels))
	v = oneHot(v, string(r.Gender), levelStrings(genderLevels))
	v = oneHot(v, string(r.MaritalStatus), levelStrings(maritalLevels))
	v = oneHot(v, r.Region, regionLevels)
	v = oneHot(v, r.EmpLength, empLengthLevels)
	v = oneHot(v, string(r.SeekingWork), levelStrings(yesNoLevels))
	v = oneHot(v, r.Children, countLevels)
	v = append(v, float64(r.IZero), float64(r.ICap), r.ILevel)
	v = oneHot(v, r.IBand, incomeBands)
	v = oneHot(v, string(r.HousingTenure), levelStrings(tenureLevels))
	v = oneHot(v, string(r.HouseResp), levelStrings(yesNoLevels))
	v = oneHot(v, string(r.Caring), levelStrings(yesNoLevels))
	v = oneHot(v, r.HHEmployed, countLevels)
	v = oneHot(v, r.HHUnemployed, countLevels)
	v = oneHot(v, r.HHInactive, countLevels)
	v = append(v, float64(r.InEmployedHH))
	return v
}

func oneHot(dst []float64, value string, levels []string) []float64 {
	for _, l := range levels {
		if value == l {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	return dst
}

func levelStrings[T ~string](levels []T) []string {
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}
