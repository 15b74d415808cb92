package policy

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jobtrust/internal/errs"
)

// Policy holds the locale- and currency-sensitive fraud constants. They are
// deliberately file-configurable: the salary reference table is the most
// deployment-specific heuristic in the pipeline.
type Policy struct {
	// SalaryBands maps an experience tier to the reasonable annual USD
	// range for that tier. An average salary above max*Multiplier is
	// treated as unrealistically high.
	SalaryBands      map[string]SalaryBand `yaml:"salary_bands"`
	SalaryMultiplier float64               `yaml:"salary_multiplier"`
	// SalarySpreadRatio is the max/min ratio above which a posted range
	// counts as suspiciously wide.
	SalarySpreadRatio float64 `yaml:"salary_spread_ratio"`

	ScamCompanies        []string `yaml:"scam_companies"`
	PersonalEmailDomains []string `yaml:"personal_email_domains"`
}

type SalaryBand struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Default returns the built-in policy used when no policy file is configured.
func Default() Policy {
	return Policy{
		SalaryBands: map[string]SalaryBand{
			"intern":    {Min: 20000, Max: 60000},
			"entry":     {Min: 30000, Max: 90000},
			"mid":       {Min: 50000, Max: 140000},
			"senior":    {Min: 80000, Max: 200000},
			"lead":      {Min: 100000, Max: 250000},
			"executive": {Min: 120000, Max: 400000},
		},
		SalaryMultiplier:  2.0,
		SalarySpreadRatio: 4.0,
		ScamCompanies:     nil,
		PersonalEmailDomains: []string{
			"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "aol.com", "mail.ru",
		},
	}
}

// Band returns the salary band for an experience level, falling back to the
// mid tier for unknown levels so the check stays defined for any input.
func (p Policy) Band(experienceLevel string) SalaryBand {
	key := strings.ToLower(strings.TrimSpace(experienceLevel))
	switch key {
	case "intern", "internship":
		key = "intern"
	case "entry", "entry-level", "junior", "associate":
		key = "entry"
	case "senior", "sr":
		key = "senior"
	case "lead", "staff", "principal":
		key = "lead"
	case "executive", "director", "vp", "c-level":
		key = "executive"
	default:
		if _, ok := p.SalaryBands[key]; !ok {
			key = "mid"
		}
	}

	if band, ok := p.SalaryBands[key]; ok {
		return band
	}
	return SalaryBand{Min: 50000, Max: 140000}
}

// IsScamCompany matches a company name against the blocklist, case- and
// whitespace-insensitively.
func (p Policy) IsScamCompany(name string) bool {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return false
	}
	for _, entry := range p.ScamCompanies {
		if strings.ToLower(strings.TrimSpace(entry)) == needle {
			return true
		}
	}
	return false
}

// IsPersonalEmailDomain reports whether an application email address uses a
// consumer mail provider.
func (p Policy) IsPersonalEmailDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))
	for _, entry := range p.PersonalEmailDomains {
		if domain == strings.ToLower(entry) {
			return true
		}
	}
	return false
}

// LoadFile reads a policy YAML file and overlays it on the defaults, so a
// partial file only overrides the sections it names.
func LoadFile(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, errs.Wrapf(err, "read policy file %q", path)
	}

	loaded := Default()
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return Policy{}, errs.Wrapf(err, "parse policy file %q", path)
	}

	if loaded.SalaryMultiplier <= 1 {
		loaded.SalaryMultiplier = Default().SalaryMultiplier
	}
	if loaded.SalarySpreadRatio <= 1 {
		loaded.SalarySpreadRatio = Default().SalarySpreadRatio
	}
	if len(loaded.SalaryBands) == 0 {
		loaded.SalaryBands = Default().SalaryBands
	}

	return loaded, nil
}
