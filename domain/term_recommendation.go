package domain

type TermPreference string

const (
	MinimizeInterest TermPreference = "minimize_interest"
	MinimizePayment  TermPreference = "minimize_payment"
	Balanced         TermPreference = "balanced"
)

type TermRecommendationInput struct {
	Principal         float64        `json:"principal"`
	InterestRate      float64        `json:"interestRate"` // annual, percent
	MinTermMonths     int            `json:"minTermMonths"`
	MaxTermMonths     int            `json:"maxTermMonths"`
	MaxMonthlyPayment float64        `json:"maxMonthlyPayment"`
	Preference        TermPreference `json:"preference"`
}

type TermRecommendation struct {
	TermMonths     int     `json:"termMonths"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	PayoffDate     string  `json:"payoffDate"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason"`
}

type TermRecommendationResult struct {
	RecommendedTerm int                  `json:"recommendedTerm"`
	Recommendations []TermRecommendation `json:"recommendations"`
}
