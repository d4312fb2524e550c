package car

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinYear is the oldest model year the garage tracks.
const MinYear = 1990

type Car struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Model      string             `bson:"model" json:"model"`
	Year       int                `bson:"year" json:"year"`
	Mileage    int                `bson:"mileage" json:"mileage"`
	DateBought time.Time          `bson:"dateBought" json:"dateBought"`
	URL        string             `bson:"url" json:"url"`
	UserID     string             `bson:"userID" json:"userID"`
}

// carRequest is the wire shape for create and update. ID is ignored on
// create.
type carRequest struct {
	ID         string    `json:"id"`
	Model      string    `json:"model" binding:"required"`
	Year       int       `json:"year" binding:"required,gte=1990"`
	Mileage    int       `json:"mileage" binding:"gte=0"`
	DateBought time.Time `json:"dateBought" binding:"required"`
	URL        string    `json:"url" binding:"omitempty,url"`
	UserID     string    `json:"userID" binding:"required"`
}

func (r carRequest) toCar() Car {
	return Car{
		Model:      r.Model,
		Year:       r.Year,
		Mileage:    r.Mileage,
		DateBought: r.DateBought,
		URL:        r.URL,
		UserID:     r.UserID,
	}
}
