package warehouse

// Warehouse is master data owned by the surrounding platform; the engine
// only reads it for existence checks and display names.
type Warehouse struct {
	WarehouseID uint   `gorm:"column:warehouse_id;primaryKey;autoIncrement" json:"warehouse_id"`
	Code        string `gorm:"column:code;type:varchar(64);not null;uniqueIndex" json:"code"`
	Name        string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	IsActive    bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

func (Warehouse) TableName() string {
	return "warehouse"
}
