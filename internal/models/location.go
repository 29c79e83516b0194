package models

// LocationModel is a place a post can be written from. Deleting a location
// clears the reference on its posts instead of cascading.
type LocationModel struct {
	PublishBase
	Name string `json:"name" gorm:"not null"`
}

func (LocationModel) TableName() string { return "locations" }
