package entities

type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null" json:"measurement_unit"`
}
