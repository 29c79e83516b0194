package models

// CategoryModel groups posts under a URL slug. An unpublished category hides
// every post inside it from public listings.
type CategoryModel struct {
	PublishBase
	Title       string `json:"title"       gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Slug        string `json:"slug"        gorm:"uniqueIndex;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "categories" }
