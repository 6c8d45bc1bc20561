package entities

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Username  string `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"size:20;not null;default:user" json:"role"`

	Timestamp
}

// Follow is a directed subscription of User to Author.
type Follow struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_follow_user_author" json:"user_id"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_follow_user_author;index" json:"author_id"`

	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Timestamp
}
