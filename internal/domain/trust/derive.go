package trust

import "strings"

// LocationInfo is the normalized location view of one posting.
type LocationInfo struct {
	CountryCode       string
	Remote            bool
	RelocationSupport bool
	VisaSupport       bool
}

// countryPhrases is iterated in order; first phrase match wins. Major hub
// cities are included because many postings carry only a city name.
var countryPhrases = []struct {
	code    string
	phrases []string
}{
	{"US", []string{"united states", "usa", "u.s.", "new york", "san francisco", "seattle", "austin", "boston", "chicago", "los angeles"}},
	{"GB", []string{"united kingdom", "uk", "england", "london", "manchester", "edinburgh"}},
	{"CA", []string{"canada", "toronto", "vancouver", "montreal"}},
	{"DE", []string{"germany", "berlin", "munich", "hamburg"}},
	{"FR", []string{"france", "paris", "lyon"}},
	{"NL", []string{"netherlands", "amsterdam", "rotterdam"}},
	{"ES", []string{"spain", "madrid", "barcelona"}},
	{"PL", []string{"poland", "warsaw", "krakow"}},
	{"UA", []string{"ukraine", "kyiv", "lviv"}},
	{"IN", []string{"india", "bangalore", "bengaluru", "hyderabad", "mumbai", "pune"}},
	{"SG", []string{"singapore"}},
	{"JP", []string{"japan", "tokyo", "osaka"}},
	{"AU", []string{"australia", "sydney", "melbourne"}},
	{"BR", []string{"brazil", "sao paulo", "rio de janeiro"}},
}

var remotePhrases = []string{"remote", "work from anywhere", "fully distributed", "anywhere"}

// NormalizeLocation resolves a country code from the raw location string and
// scans location plus description for remote/relocation/visa signals.
func NormalizeLocation(rawLocation string, description string) LocationInfo {
	location := strings.ToLower(strings.TrimSpace(rawLocation))
	combined := location + "\n" + strings.ToLower(description)

	info := LocationInfo{}
	for _, row := range countryPhrases {
		for _, phrase := range row.phrases {
			if containsTerm(location, phrase) {
				info.CountryCode = row.code
				break
			}
		}
		if info.CountryCode != "" {
			break
		}
	}

	for _, phrase := range remotePhrases {
		if strings.Contains(combined, phrase) {
			info.Remote = true
			break
		}
	}
	info.RelocationSupport = strings.Contains(combined, "relocation")
	info.VisaSupport = strings.Contains(combined, "visa sponsorship") || strings.Contains(combined, "visa support")

	return info
}

// Compensation is the USD-normalized salary view.
type Compensation struct {
	MinUSD    *float64
	MaxUSD    *float64
	MedianUSD *float64
	Period    string
}

// usdMultipliers is a fixed conversion table; unknown currencies pass
// through unconverted.
var usdMultipliers = map[string]float64{
	"USD": 1, "EUR": 1.08, "GBP": 1.27, "CAD": 0.73, "AUD": 0.66,
	"INR": 0.012, "JPY": 0.0067, "CHF": 1.10, "SGD": 0.74, "BRL": 0.19,
	"PLN": 0.25, "UAH": 0.024, "SEK": 0.095, "DKK": 0.145,
}

// NormalizeCompensation converts the posted range to USD and computes the
// midpoint median.
func NormalizeCompensation(salaryMin *float64, salaryMax *float64, currency string, period string) Compensation {
	multiplier := 1.0
	if m, ok := usdMultipliers[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		multiplier = m
	}

	comp := Compensation{Period: period}
	if salaryMin != nil {
		v := *salaryMin * multiplier
		comp.MinUSD = &v
	}
	if salaryMax != nil {
		v := *salaryMax * multiplier
		comp.MaxUSD = &v
	}

	switch {
	case comp.MinUSD != nil && comp.MaxUSD != nil:
		v := (*comp.MinUSD + *comp.MaxUSD) / 2
		comp.MedianUSD = &v
	case comp.MinUSD != nil:
		v := *comp.MinUSD
		comp.MedianUSD = &v
	case comp.MaxUSD != nil:
		v := *comp.MaxUSD
		comp.MedianUSD = &v
	}

	return comp
}

// ClassifyApplication estimates how involved applying is, with the expected
// minutes for each tier.
func ClassifyApplication(description string, requirements []string) (ApplicationComplexity, int) {
	text := strings.ToLower(description + "\n" + strings.Join(requirements, "\n"))

	if strings.Contains(text, "quick apply") || strings.Contains(text, "easy apply") || strings.Contains(text, "one-click apply") {
		return ApplySimple, 5
	}

	hasAssessment := strings.Contains(text, "assessment") || strings.Contains(text, "take-home") || strings.Contains(text, "coding challenge")
	hasCoverLetter := strings.Contains(text, "cover letter")
	hasPortfolio := strings.Contains(text, "portfolio")

	if hasAssessment || (hasCoverLetter && hasPortfolio) {
		return ApplyVeryComplex, 45
	}
	if hasPortfolio || strings.Contains(text, "screening") {
		return ApplyComplex, 30
	}
	return ApplyModerate, 15
}
