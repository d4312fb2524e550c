package credentials

import "time"

// Credential is a stored account: a username and its password hash.
type Credential struct {
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"passwordHash"`
	HashVersion  string    `bson:"hashVersion"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}
