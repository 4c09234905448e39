package models

type Preference struct {
	ID     int64
	UserID int64
	City   string
}
