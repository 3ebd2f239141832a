package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered user. PasswordHash holds the argon2 encoding
// of the password; the plaintext is never stored. PasswordResetToken is the
// sha256 hex digest of the most recently issued reset token, set together
// with PasswordResetExpires and cleared together on a successful reset.
type User struct {
	ID                   bson.ObjectID `bson:"_id,omitempty"`
	Name                 string        `bson:"name"`
	Email                string        `bson:"email"`
	PasswordHash         string        `bson:"password_hash"`
	PasswordResetToken   string        `bson:"password_reset_token,omitempty"`
	PasswordResetExpires time.Time     `bson:"password_reset_expires,omitempty"`
	CreatedAt            time.Time     `bson:"created_at"`
	UpdatedAt            time.Time     `bson:"updated_at"`
}
