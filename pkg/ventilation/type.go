package ventilation

// ExhaustType is a closed enum; "none" means no exhaust was intended for
// the path, which is distinct from a path that exists but moves 0 CFM.
type ExhaustType string

const (
	ExhaustNone         ExhaustType = "none"
	ExhaustIntermittent ExhaustType = "intermittent"
	ExhaustContinuous   ExhaustType = "continuous"
)

type MechanicalType string

const (
	MechanicalNone        MechanicalType = "none"
	MechanicalBalancedHRV MechanicalType = "balanced_hrv"
	MechanicalBalancedERV MechanicalType = "balanced_erv"
	MechanicalSupplyOnly  MechanicalType = "supply_only"
	MechanicalExhaustOnly MechanicalType = "exhaust_only"
)

// ASHRAE 62.2 local exhaust minimums, CFM.
const (
	KitchenIntermittentMinCfm  = 100.0
	KitchenContinuousMinCfm    = 25.0
	BathroomIntermittentMinCfm = 50.0
	BathroomContinuousMinCfm   = 20.0
)

// MaxBathrooms is the number of bathroom exhaust paths a test can carry.
const MaxBathrooms = 4

type LocalExhaust struct {
	Type        ExhaustType `json:"exhaust_type" validate:"oneof=none intermittent continuous"`
	MeasuredCfm float64     `json:"measured_cfm" validate:"gte=0"`
}

type MechanicalSystem struct {
	Type       MechanicalType `json:"type" validate:"oneof=none balanced_hrv balanced_erv supply_only exhaust_only"`
	SupplyCfm  float64        `json:"supply_cfm" validate:"gte=0"`
	ExhaustCfm float64        `json:"exhaust_cfm" validate:"gte=0"`
}

type Test struct {
	FloorAreaSqft         float64          `json:"floor_area_sqft" validate:"gt=0"`
	Bedrooms              int              `json:"bedrooms" validate:"gte=0"`
	InfiltrationCreditCfm float64          `json:"infiltration_credit_cfm" validate:"gte=0"`
	Kitchen               LocalExhaust     `json:"kitchen"`
	Bathrooms             []LocalExhaust   `json:"bathrooms" validate:"max=4,dive"`
	Mechanical            MechanicalSystem `json:"mechanical"`
}

// ComponentCompliance is the independent record for one local exhaust path.
// Paths of type "none" appear with Excluded set; they are not failures and
// contribute nothing to the total.
type ComponentCompliance struct {
	Component   string      `json:"component"`
	Type        ExhaustType `json:"exhaust_type"`
	ProvidedCfm float64     `json:"provided_cfm"`
	RequiredCfm float64     `json:"required_cfm"`
	Compliant   bool        `json:"compliant"`
	Excluded    bool        `json:"excluded"`
}

type Result struct {
	RequiredRateCfm           float64               `json:"required_rate_cfm"`
	AdjustedRequiredCfm       float64               `json:"adjusted_required_cfm"`
	TotalProvidedCfm          float64               `json:"total_provided_cfm"`
	MechanicalContributionCfm float64               `json:"mechanical_contribution_cfm"`
	Components                []ComponentCompliance `json:"components"`
	OverallCompliant          bool                  `json:"overall_compliant"`
}
