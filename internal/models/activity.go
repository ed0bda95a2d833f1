package models

// Activity records are read-only inputs produced by the document extraction
// and emission calculation pipeline. ActivityID and EmissionsKg come from a
// left join and are nil when the record has not been through calculation yet.

type ShippingRecord struct {
	ParsedID      int64
	DocumentID    int64
	WeightTons    float64
	DistanceMiles float64
	TransportMode string // empty means unknown, engine defaults to truck
	ActivityID    *int64
	EmissionsKg   *float64
}

// FuelRecord covers both vehicle fuel and stationary fuel rows; the two
// tables share a shape and differ only in which factor table applies.
type FuelRecord struct {
	ParsedID    int64
	DocumentID  int64
	FuelType    string
	Quantity    float64
	Unit        string
	ActivityID  *int64
	EmissionsKg *float64
}

type ElectricityRecord struct {
	ParsedID    int64
	DocumentID  int64
	KWh         float64
	Unit        string
	Location    string
	ActivityID  *int64
	EmissionsKg *float64
}
