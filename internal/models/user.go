package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `gorm:"not null"`
	Role         UserRole   `gorm:"not null;default:'user'"`
	Status       UserStatus `gorm:"not null;default:'active'"`
	City         string
	AvatarURL    string
	// PushToken is the registered device token; empty means the push
	// channel is skipped for this user.
	PushToken string

	Notifications []Notification `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
}
