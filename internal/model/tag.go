package model

// Tag names are global; markers of every user share one namespace.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ctime int64  `json:"ctime"`
}
