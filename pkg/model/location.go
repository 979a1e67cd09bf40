package model

type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

type GeocodeResult struct {
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
}

// AvailableSlot is the availability-search projection of an open parking
// slot, annotated with the distance from the searched position.
type AvailableSlot struct {
	SlotID       string  `json:"slot_id"`
	LandlordID   string  `json:"landlord_id"`
	PricePerHour string  `json:"price_per_hour"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	DistanceKm   float64 `json:"distance_km"`
}
