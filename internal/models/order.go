package models

// Temperature is the storage class an order declares it needs.
type Temperature string

const (
	Hot  Temperature = "hot"
	Cold Temperature = "cold"
	Room Temperature = "room"
)

// Order is an incoming food order. It is never mutated after creation.
type Order struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Temp      Temperature `json:"temp"`
	Price     int         `json:"price"`
	Freshness int         `json:"freshness"` // seconds
}

// IdealLocation maps the temperature class to its storage location.
// Anything that is not hot or cold belongs on the shelf.
func (t Temperature) IdealLocation() Location {
	switch t {
	case Hot:
		return Heater
	case Cold:
		return Cooler
	default:
		return Shelf
	}
}
