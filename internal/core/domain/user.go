package domain

// User models an account that can sign in to the dashboard or book trips.
type User struct {
	Record       `bson:",inline"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" gorm:"uniqueIndex;not null" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Role         Role   `json:"role" gorm:"not null;default:USER" bson:"role"`
}

// Session returns the session a successful sign-in grants to u.
func (u *User) Session() *Session {
	return &Session{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role.SessionRole(),
	}
}
