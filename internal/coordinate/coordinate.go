package coordinate

// Coordinate is a timestamped position in decimal degrees.
type Coordinate struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"createdAt"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}
