package service

// FuelSwitch names the lower-carbon fuel a record should move to, together
// with the unit its emission factor is keyed on.
type FuelSwitch struct {
	Fuel string
	Unit string
}

// Params carries every constant the candidate generators consume. Passed by
// value so tests can substitute tables without touching package state.
type Params struct {
	// Shipping emission factors, kg CO2e per ton-mile (EPA MOVES / DEFRA).
	ModeFactors       map[string]float64
	DefaultModeFactor float64
	// Real-world switch friction per transport mode.
	ModeFeasibility        map[string]float64
	DefaultModeFeasibility float64
	// Feasibility gates: minimum shipment distance in miles per mode.
	RailMinMiles float64
	ShipMinMiles float64

	// Fuel combustion factors, kg CO2e per unit, keyed fuel then unit.
	VehicleFuelKg    map[string]map[string]float64
	StationaryFuelKg map[string]map[string]float64
	// Fixed substitution tables.
	VehicleFuelSwitch    map[string]FuelSwitch
	StationaryFuelSwitch map[string]FuelSwitch

	// US national average grid intensity, kg CO2e per kWh (EPA eGRID).
	GridKgPerKWh float64

	// Vendor distances are stored in km; shipping records in miles.
	KmToMiles float64

	// MMR reranking.
	Lambda             float64
	DuplicateThreshold float64
	TopN               int
}

// modeOrder fixes the iteration order over transport modes so candidate
// selection is deterministic.
var modeOrder = []string{"truck", "rail", "ship", "air"}

// DefaultParams returns the standard factor tables and engine defaults.
func DefaultParams() Params {
	return Params{
		ModeFactors: map[string]float64{
			"truck": 0.1693,
			"rail":  0.0229,
			"ship":  0.0098,
			"air":   1.1300,
		},
		DefaultModeFactor: 0.1693,
		ModeFeasibility: map[string]float64{
			"truck": 0.95,
			"rail":  0.70,
			"ship":  0.50,
			"air":   0.95,
		},
		DefaultModeFeasibility: 0.5,
		RailMinMiles:           100,
		ShipMinMiles:           200,

		VehicleFuelKg: map[string]map[string]float64{
			"gasoline": {"gallon": 8.8878, "liter": 2.3480},
			"diesel":   {"gallon": 10.1800, "liter": 2.6893},
		},
		StationaryFuelKg: map[string]map[string]float64{
			"natural_gas": {"therm": 5.3067, "ft3": 0.0549, "gallon": 5.3067},
			"propane":     {"gallon": 5.7260, "therm": 6.3200, "ft3": 0.0680},
			"heating_oil": {"gallon": 10.1530, "therm": 7.4100, "ft3": 0.0001},
		},
		VehicleFuelSwitch: map[string]FuelSwitch{
			"diesel": {Fuel: "gasoline", Unit: "gallon"},
		},
		StationaryFuelSwitch: map[string]FuelSwitch{
			"heating_oil": {Fuel: "propane", Unit: "gallon"},
		},

		GridKgPerKWh: 0.3862,
		KmToMiles:    0.621371,

		Lambda:             0.7,
		DuplicateThreshold: 0.93,
		TopN:               3,
	}
}

func (p Params) modeFactor(mode string) float64 {
	if f, ok := p.ModeFactors[mode]; ok {
		return f
	}
	return p.DefaultModeFactor
}

func (p Params) modeFeasibility(mode string) float64 {
	if f, ok := p.ModeFeasibility[mode]; ok {
		return f
	}
	return p.DefaultModeFeasibility
}

func fuelFactor(table map[string]map[string]float64, fuel, unit string) float64 {
	if units, ok := table[fuel]; ok {
		return units[unit]
	}
	return 0
}
