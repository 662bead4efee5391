package models

// FinancialDataPoint is one month of the 12-month projection.
type FinancialDataPoint struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

type FinancialForecast struct {
	Analysis string               `json:"analysis"`
	Data     []FinancialDataPoint `json:"data"`
}

type Risk struct {
	Title      string `json:"title"`
	Mitigation string `json:"mitigation"`
}

type RisksAndRoadmap struct {
	Risks   []Risk        `json:"risks"`
	Roadmap []RoadmapTask `json:"roadmap"`
}
