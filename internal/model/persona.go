package model

// Persona holds per-user reading parameters consumed by plan generation.
// swagger:model Persona
type Persona struct {
	BaseModel
	UserID           uint `gorm:"uniqueIndex;not null" json:"userId"`
	WPM              int  `gorm:"default:200" json:"wpm"`
	DailyReadingTime int  `gorm:"default:30" json:"dailyReadingTime"`
}

func (Persona) TableName() string {
	return "personas"
}
