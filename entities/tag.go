package entities

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:7" json:"color"`
	Slug  string `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}
