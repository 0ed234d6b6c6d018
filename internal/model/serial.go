package model

type Serial struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Ctime       int64  `json:"ctime"`
	Mtime       int64  `json:"mtime"`
}

type SerialMember struct {
	SerialID string `json:"serial_id"`
	MarkerID string `json:"marker_id"`
	Seq      int    `json:"sequence_number"`
}

type SerialSummary struct {
	Serial
	MemberCount int `json:"member_count"`
	MarkerCount int `json:"marker_count"`
}

// SerialStop is one member joined with its marker.
type SerialStop struct {
	MarkerID    string  `json:"marker_id"`
	Seq         int     `json:"sequence_number"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}
