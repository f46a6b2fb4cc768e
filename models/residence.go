package models

import "time"

type Residence struct {
	ResidenceID string            `json:"residenceid" bson:"residenceid"`
	Name        string            `json:"name" bson:"name"`
	Description string            `json:"description" bson:"description"`
	Price       string            `json:"price" bson:"price"` // display string, never parsed

	Image       string            `json:"image" bson:"image"`
	Gallery     []string          `json:"gallery,omitempty" bson:"gallery,omitempty"`
	Location    string            `json:"location" bson:"location"`
	Features    ResidenceFeatures `json:"features" bson:"features"`
	Amenities   []string          `json:"amenities,omitempty" bson:"amenities,omitempty"`
	MapIframe   string            `json:"mapIframe,omitempty" bson:"mapIframe,omitempty"`
	Sold        bool              `json:"sold" bson:"sold"`
	CreatedBy   string            `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`
}

type ResidenceFeatures struct {
	Beds  int `json:"beds" bson:"beds"`
	Baths int `json:"baths" bson:"baths"`
	Sqft  int `json:"sqft" bson:"sqft"`
}
