package ductleakage

type Test struct {
	SystemAirflowCfm    float64 `json:"system_airflow_cfm" validate:"gt=0"`
	ConditionedAreaSqft float64 `json:"conditioned_area_sqft" validate:"gt=0"`
	Cfm25Total          float64 `json:"cfm25_total" validate:"gte=0"`
	Cfm25Outside        float64 `json:"cfm25_outside" validate:"gte=0"`
	CodeYear            int     `json:"code_year" validate:"gt=0"`
}

// Result carries two independent verdicts; total and outside leakage are
// never merged into a single pass/fail.
type Result struct {
	TotalPercentOfFlow   float64 `json:"total_percent_of_flow"`
	OutsidePercentOfFlow float64 `json:"outside_percent_of_flow"`
	TotalPer100Sqft      float64 `json:"total_cfm25_per_100_sqft"`
	OutsidePer100Sqft    float64 `json:"outside_cfm25_per_100_sqft"`
	LimitTotalPercent    float64 `json:"limit_total_percent"`
	LimitOutsidePercent  float64 `json:"limit_outside_percent"`
	MeetsCodeTDL         bool    `json:"meets_code_tdl"`
	MeetsCodeDLO         bool    `json:"meets_code_dlo"`
}
