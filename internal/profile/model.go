package profile

import "time"

type ReminderPreference string

const (
	ReminderNone      ReminderPreference = "none"
	ReminderOneDay    ReminderPreference = "1_day"
	ReminderThreeDays ReminderPreference = "3_days"
)

type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat" binding:"gte=-90,lte=90"`
	Lng float64 `bson:"lng" json:"lng" binding:"gte=-180,lte=180"`
}

// Profile is the user-facing record attached to an account. Username links
// it to the credentials in the users collection.
type Profile struct {
	Username                string             `bson:"username" json:"username" binding:"required,alphanum"`
	Email                   string             `bson:"email" json:"email" binding:"required,email"`
	IsAdmin                 bool               `bson:"isAdmin" json:"isAdmin"`
	Coordinates             Coordinates        `bson:"coordinates" json:"coordinates"`
	EmailReminderPreference ReminderPreference `bson:"emailReminderPreference" json:"emailReminderPreference" binding:"required,oneof=none 1_day 3_days"`
	LastReminderSent        *time.Time         `bson:"lastReminderSent,omitempty" json:"lastReminderSent,omitempty"`
}
