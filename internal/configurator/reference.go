package configurator

import "github.com/shopspring/decimal"

// HoseType is a hose construction with a base per-foot price.
type HoseType struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	PricePerFoot     decimal.Decimal `json:"pricePerFoot"`
	MaxPressurePSI   int             `json:"maxPressure"`
	TemperatureRange string          `json:"temperatureRange"`
}

// Diameter is an inner-diameter option. Its multiplier scales the hose
// type's per-foot price.
type Diameter struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	InnerDiameter decimal.Decimal `json:"innerDiameter"`
	Multiplier    decimal.Decimal `json:"multiplier"`
}

// Fitting is a hose-end fitting with a flat price and the diameter ids it
// can be crimped onto.
type Fitting struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	CompatibleDiameters []string        `json:"compatibleDiameters"`
}

// CompatibleWith reports whether the fitting can be used with the given
// diameter id.
func (f Fitting) CompatibleWith(diameterID string) bool {
	for _, id := range f.CompatibleDiameters {
		if id == diameterID {
			return true
		}
	}
	return false
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var allDiameterIDs = []string{"0.25", "0.375", "0.5", "0.75", "1"}

// Static reference catalogs. Immutable after init; sourced from supplier
// data sheets until the commerce backend exposes them as metafields.
var (
	hoseTypes = []HoseType{
		{ID: "r2at", Name: "SAE 100R2AT", Description: "Two-wire braided, up to 5000 PSI", PricePerFoot: d("12.99"), MaxPressurePSI: 5000, TemperatureRange: "-40°F to 250°F"},
		{ID: "r1at", Name: "SAE 100R1AT", Description: "One-wire braided, up to 2750 PSI", PricePerFoot: d("8.99"), MaxPressurePSI: 2750, TemperatureRange: "-40°F to 250°F"},
		{ID: "r17", Name: "SAE 100R17", Description: "Compact one-wire, up to 3000 PSI", PricePerFoot: d("10.99"), MaxPressurePSI: 3000, TemperatureRange: "-40°F to 212°F"},
		{ID: "4sp", Name: "SAE 100R12/4SP", Description: "Four-wire spiral, up to 6000 PSI", PricePerFoot: d("18.99"), MaxPressurePSI: 6000, TemperatureRange: "-40°F to 250°F"},
	}

	diameters = []Diameter{
		{ID: "0.25", Name: "1/4\"", InnerDiameter: d("0.25"), Multiplier: d("1.0")},
		{ID: "0.375", Name: "3/8\"", InnerDiameter: d("0.375"), Multiplier: d("1.15")},
		{ID: "0.5", Name: "1/2\"", InnerDiameter: d("0.5"), Multiplier: d("1.3")},
		{ID: "0.75", Name: "3/4\"", InnerDiameter: d("0.75"), Multiplier: d("1.5")},
		{ID: "1", Name: "1\"", InnerDiameter: d("1"), Multiplier: d("1.8")},
	}

	fittings = []Fitting{
		{ID: "jic-female", Name: "JIC Female Swivel", Description: "37-degree flare", Price: d("8.50"), CompatibleDiameters: allDiameterIDs},
		{ID: "jic-male", Name: "JIC Male", Description: "37-degree flare", Price: d("7.50"), CompatibleDiameters: allDiameterIDs},
		{ID: "npt-male", Name: "NPT Male", Description: "Pipe thread", Price: d("6.75"), CompatibleDiameters: allDiameterIDs},
		{ID: "npt-female", Name: "NPT Female", Description: "Pipe thread", Price: d("7.25"), CompatibleDiameters: allDiameterIDs},
		{ID: "orfs-male", Name: "ORFS Male", Description: "O-ring face seal", Price: d("9.50"), CompatibleDiameters: allDiameterIDs},
		{ID: "orfs-female", Name: "ORFS Female Swivel", Description: "O-ring face seal", Price: d("10.50"), CompatibleDiameters: allDiameterIDs},
	}
)

// HoseTypes returns the hose type reference catalog.
func HoseTypes() []HoseType { return hoseTypes }

// Diameters returns the diameter reference catalog.
func Diameters() []Diameter { return diameters }

// Fittings returns the fitting reference catalog.
func Fittings() []Fitting { return fittings }

// HoseTypeByID returns the hose type with the given id, or nil.
func HoseTypeByID(id string) *HoseType {
	for i := range hoseTypes {
		if hoseTypes[i].ID == id {
			return &hoseTypes[i]
		}
	}
	return nil
}

// DiameterByID returns the diameter with the given id, or nil.
func DiameterByID(id string) *Diameter {
	for i := range diameters {
		if diameters[i].ID == id {
			return &diameters[i]
		}
	}
	return nil
}

// FittingByID returns the fitting with the given id, or nil.
func FittingByID(id string) *Fitting {
	for i := range fittings {
		if fittings[i].ID == id {
			return &fittings[i]
		}
	}
	return nil
}
