package domain

// Center is a physical collection point donations are routed to. The record
// is static reference data, read-only for this service.
type Center struct {
	ID        string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Phone     string
}
