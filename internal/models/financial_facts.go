package models

// FinancialFacts is the structured result requested from the completion provider.
type FinancialFacts struct {
	Assets       []string `json:"assets"`
	Expenditures []string `json:"expenditures"`
	Income       []string `json:"income"`
}

// WithSentinels substitutes InsufficientDataMessage for every empty field.
func (f *FinancialFacts) WithSentinels() FinancialFacts {
	return FinancialFacts{
		Assets:       orInsufficient(f.Assets),
		Expenditures: orInsufficient(f.Expenditures),
		Income:       orInsufficient(f.Income),
	}
}

// TimedOutFacts fills every field with TimeoutMessage.
func TimedOutFacts() FinancialFacts {
	return FinancialFacts{
		Assets:       []string{TimeoutMessage},
		Expenditures: []string{TimeoutMessage},
		Income:       []string{TimeoutMessage},
	}
}

func orInsufficient(facts []string) []string {
	if len(facts) == 0 {
		return []string{InsufficientDataMessage}
	}
	return facts
}
