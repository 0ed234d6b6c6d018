package model

type Marker struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Weather     string  `json:"weather"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Date        string  `json:"date"`
	Ctime       int64   `json:"ctime"`
	Mtime       int64   `json:"mtime"`
}

type MarkerTag struct {
	MarkerID string `json:"marker_id"`
	TagID    string `json:"tag_id"`
}
