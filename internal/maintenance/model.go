package maintenance

import "time"

// Record tracks the last service of one part of one car. A car has at most
// one record per part.
type Record struct {
	CarID       string    `bson:"carId" json:"carId" binding:"required"`
	CarPart     string    `bson:"carPart" json:"carPart" binding:"required"`
	LastChanged time.Time `bson:"lastChanged" json:"lastChanged" binding:"required"`
	Mileage     int       `bson:"mileage" json:"mileage" binding:"gte=0"`
	Price       float64   `bson:"price" json:"price" binding:"gte=0"`
}

// updateRequest carries the mutable fields; the path names the record.
type updateRequest struct {
	LastChanged time.Time `json:"lastChanged" binding:"required"`
	Mileage     int       `json:"mileage" binding:"gte=0"`
	Price       float64   `json:"price" binding:"gte=0"`
}
