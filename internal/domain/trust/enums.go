package trust

// Seniority is the ordinal title classification. The zero value means the
// title carried no resolvable seniority signal.
type Seniority string

const (
	SeniorityIntern    Seniority = "INTERN"
	SeniorityJunior    Seniority = "JUNIOR"
	SeniorityMid       Seniority = "MID"
	SenioritySenior    Seniority = "SENIOR"
	SeniorityLead      Seniority = "LEAD"
	SeniorityPrincipal Seniority = "PRINCIPAL"
	SeniorityDirector  Seniority = "DIRECTOR"
	SeniorityVP        Seniority = "VP"
	SeniorityCLevel    Seniority = "C_LEVEL"
)

// FunctionCategory is the job's broad discipline.
type FunctionCategory string

const (
	CategoryEngineering     FunctionCategory = "ENGINEERING"
	CategoryData            FunctionCategory = "DATA"
	CategoryProduct         FunctionCategory = "PRODUCT"
	CategoryDesign          FunctionCategory = "DESIGN"
	CategoryMarketing       FunctionCategory = "MARKETING"
	CategorySales           FunctionCategory = "SALES"
	CategoryFinance         FunctionCategory = "FINANCE"
	CategoryHR              FunctionCategory = "HR"
	CategoryOperations      FunctionCategory = "OPERATIONS"
	CategoryCustomerSupport FunctionCategory = "CUSTOMER_SUPPORT"
	CategoryLegal           FunctionCategory = "LEGAL"
	CategoryOther           FunctionCategory = "OTHER"
)

// VerificationStatus tracks how far an employer has progressed through
// verification, or whether it has been flagged.
type VerificationStatus string

const (
	VerificationUnverified  VerificationStatus = "UNVERIFIED"
	VerificationPending     VerificationStatus = "PENDING"
	VerificationVerified    VerificationStatus = "VERIFIED"
	VerificationSuspicious  VerificationStatus = "SUSPICIOUS"
	VerificationBlacklisted VerificationStatus = "BLACKLISTED"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// ReportType classifies user-submitted evidence against a posting.
type ReportType string

const (
	ReportScam           ReportType = "SCAM"
	ReportSpam           ReportType = "SPAM"
	ReportFakeCompany    ReportType = "FAKE_COMPANY"
	ReportMisleading     ReportType = "MISLEADING"
	ReportDiscrimination ReportType = "DISCRIMINATION"
	ReportOther          ReportType = "OTHER"
)

type ReportStatus string

const (
	ReportPending       ReportStatus = "PENDING"
	ReportInvestigating ReportStatus = "INVESTIGATING"
	ReportVerified      ReportStatus = "VERIFIED"
	ReportDismissed     ReportStatus = "DISMISSED"
	ReportResolved      ReportStatus = "RESOLVED"
)

// ApplicationComplexity classifies how much effort applying takes.
type ApplicationComplexity string

const (
	ApplySimple      ApplicationComplexity = "SIMPLE"
	ApplyModerate    ApplicationComplexity = "MODERATE"
	ApplyComplex     ApplicationComplexity = "COMPLEX"
	ApplyVeryComplex ApplicationComplexity = "VERY_COMPLEX"
)
