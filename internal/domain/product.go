package domain

// Product is a catalog entry describing one spice variety offered for wholesale.
type Product struct {
	ID          int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string   `gorm:"not null" json:"name"`
	Description string   `gorm:"not null" json:"description"`
	Type        string   `gorm:"not null" json:"type"`                          // free-form, e.g. "Whole Dried"
	SpiceLevel  string   `gorm:"column:spice_level;not null" json:"spiceLevel"` // commonly Low, Medium or High
	Image       string   `gorm:"size:1024;not null" json:"image"`               // URL or site-relative path
	Features    []string `gorm:"type:text;serializer:json" json:"features,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductInput is the accepted shape for product creation. Identity is always
// assigned by the store.
type ProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Type        string   `json:"type" validate:"required"`
	SpiceLevel  string   `json:"spiceLevel" validate:"required"`
	Image       string   `json:"image" validate:"required"`
	Features    []string `json:"features" validate:"omitempty,dive,required"`
}

func (in *ProductInput) Normalize() {
	in.Name = trim(in.Name)
	in.Description = trim(in.Description)
	in.Type = trim(in.Type)
	in.SpiceLevel = trim(in.SpiceLevel)
	in.Image = trim(in.Image)
	for i := range in.Features {
		in.Features[i] = trim(in.Features[i])
	}
}

// Product builds the record to persist.
func (in ProductInput) Product() Product {
	var features []string
	if len(in.Features) > 0 {
		features = append(features, in.Features...)
	}
	return Product{
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		SpiceLevel:  in.SpiceLevel,
		Image:       in.Image,
		Features:    features,
	}
}
