package service

const (
	MaxDebtAmount      = 1_000_000_000.0
	MaxInterestRate    = 1000.0 // annual, percent
	MaxTermMonths      = 600
	MinTermMonths      = 1
	MaxDebtsPerRequest = 50
	MaxWhatIfMethods   = 10

	// Widest span of terms RecommendTerm will sweep.
	MaxTermRangeMonths = 120

	// Default number of history entries returned.
	DefaultHistoryLimit = 50
)
