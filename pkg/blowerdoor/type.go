package blowerdoor

// RingConfiguration identifies the fan flow ring installed for a reading.
type RingConfiguration uint8

const (
	RingOpen RingConfiguration = iota
	RingA
	RingB
	RingC
	RingD
	RingE
)

func (r RingConfiguration) String() string {
	switch r {
	case RingOpen:
		return "open"
	case RingA:
		return "ring_a"
	case RingB:
		return "ring_b"
	case RingC:
		return "ring_c"
	case RingD:
		return "ring_d"
	case RingE:
		return "ring_e"
	default:
		return "unknown"
	}
}

type BasementType string

const (
	BasementNone          BasementType = "none"
	BasementConditioned   BasementType = "conditioned"
	BasementUnconditioned BasementType = "unconditioned"
	BasementCrawlspace    BasementType = "crawlspace"
)

// MultipointReading is one station of a blower-door test as entered by the
// field technician. Sequence order is insertion order only.
type MultipointReading struct {
	HousePressurePa float64           `json:"house_pressure_pa"`
	FanPressurePa   float64           `json:"fan_pressure_pa"`
	Ring            RingConfiguration `json:"ring_configuration"`
	Cfm             float64           `json:"cfm"`
}

type Setup struct {
	EquipmentSerial     string       `json:"equipment_serial"`
	CalibrationDate     string       `json:"calibration_date"`
	HouseVolumeFt3      float64      `json:"house_volume_ft3" validate:"gt=0"`
	ConditionedAreaSqft float64      `json:"conditioned_area_sqft" validate:"gt=0"`
	SurfaceAreaSqft     float64      `json:"surface_area_sqft" validate:"gte=0"`
	Stories             int          `json:"stories" validate:"gte=1"`
	Basement            BasementType `json:"basement_type"`
}

type WeatherSnapshot struct {
	OutdoorTempF     float64 `json:"outdoor_temp_f" validate:"gt=-80,lt=140"`
	IndoorTempF      float64 `json:"indoor_temp_f" validate:"gt=20,lt=120"`
	OutdoorRhPercent float64 `json:"outdoor_rh_percent" validate:"gte=0,lte=100"`
	IndoorRhPercent  float64 `json:"indoor_rh_percent" validate:"gte=0,lte=100"`
	WindSpeedMph     float64 `json:"wind_speed_mph" validate:"gte=0"`
	BarometricInHg   float64 `json:"barometric_in_hg" validate:"gt=20,lt=35"`
	AltitudeFt       float64 `json:"altitude_ft" validate:"gte=-300,lte=15000"`
}

type Test struct {
	Setup       Setup               `json:"setup"`
	Weather     WeatherSnapshot     `json:"weather"`
	Readings    []MultipointReading `json:"readings" validate:"min=1"`
	CodeYear    int                 `json:"code_year" validate:"gt=0"`
	ClimateZone int                 `json:"climate_zone" validate:"gte=1,lte=8"`
}

type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "compliant"
	StatusNonCompliant ComplianceStatus = "non_compliant"
)

// Result is a pure function of the Test inputs. Correlation is nil on
// single-point fits, where the log-log correlation is undefined.
type Result struct {
	FlowCoefficient       float64          `json:"flow_coefficient"`
	FlowExponent          float64          `json:"flow_exponent"`
	Correlation           *float64         `json:"correlation"`
	ValidPointCount       int              `json:"valid_point_count"`
	Cfm50                 float64          `json:"cfm50"`
	WeatherCorrectedCfm50 float64          `json:"weather_corrected_cfm50"`
	WeatherCorrectedM3h   float64          `json:"weather_corrected_m3h"`
	WeatherFactor         float64          `json:"weather_factor"`
	AltitudeFactor        float64          `json:"altitude_factor"`
	Ach50                 float64          `json:"ach50"`
	CodeLimitAch50        float64          `json:"code_limit_ach50"`
	ComplianceStatus      ComplianceStatus `json:"compliance_status"`
	ReducedConfidence     bool             `json:"reduced_confidence"`
	ExponentOutOfRange    bool             `json:"exponent_out_of_range"`
}
