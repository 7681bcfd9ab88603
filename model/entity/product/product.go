package product

// Product is master data owned by the surrounding platform; the engine only
// reads it for existence checks and display names.
type Product struct {
	ProductID uint   `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	SKU       string `gorm:"column:sku;type:varchar(64);not null;uniqueIndex" json:"sku"`
	Name      string `gorm:"column:name;type:varchar(255);not null" json:"name"`
}

func (Product) TableName() string {
	return "product"
}
