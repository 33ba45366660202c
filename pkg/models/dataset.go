package models

// Dataset is one complete synthetic snapshot. Events reference only
// contents and users present in the same dataset.
type Dataset struct {
	Contents []Content      `json:"contents"`
	Users    []User         `json:"users"`
	Events   []ViewingEvent `json:"events"`
}
