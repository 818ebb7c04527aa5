package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the persisted account record. PasswordHash and RefreshToken never
// leave the service; handlers respond with Public or Profile.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" bson:"-" json:"-"`

	ID           string    `bun:"id,pk" bson:"_id" json:"id"`
	Name         string    `bun:"name,notnull" bson:"name" json:"name"`
	Email        string    `bun:"email,notnull,unique" bson:"email" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" bson:"passwordHash" json:"-"`
	RefreshToken *string   `bun:"refresh_token" bson:"refreshToken" json:"-"`
	CreatedAt    time.Time `bun:"created_at,notnull" bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the user shape returned by register and login.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is the user shape returned by the profile endpoint.
type Profile struct {
	PublicUser
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u *User) Profile() Profile {
	return Profile{PublicUser: u.Public(), CreatedAt: u.CreatedAt}
}
