package catalog

import (
	"gorm.io/gorm"

	"warehouse.GO/core/cache"
	productEntity "warehouse.GO/model/entity/product"
	warehouseEntity "warehouse.GO/model/entity/warehouse"
)

const lookupTTL = 300 // seconds

// CatalogRepository resolves warehouse/product existence and display names.
// Master data is owned by the surrounding platform; this repository never
// writes it. Lookups are cached since master data changes rarely.
type CatalogRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db, cache: cache.GetInstance()}
}

// WarehouseExists reports whether an active warehouse with id exists.
func (r *CatalogRepository) WarehouseExists(id uint) bool {
	if v, ok := r.cache.GetN("warehouse_exists", id); ok {
		return v.(bool)
	}
	var count int64
	r.db.Model(&warehouseEntity.Warehouse{}).Where("warehouse_id = ? AND is_active = ?", id, true).Count(&count)
	exists := count > 0
	r.cache.SetN([]interface{}{"warehouse_exists", id}, exists, lookupTTL, []string{"warehouse"})
	return exists
}

// ProductExists reports whether a product with id exists.
func (r *CatalogRepository) ProductExists(id uint) bool {
	if v, ok := r.cache.GetN("product_exists", id); ok {
		return v.(bool)
	}
	var count int64
	r.db.Model(&productEntity.Product{}).Where("product_id = ?", id).Count(&count)
	exists := count > 0
	r.cache.SetN([]interface{}{"product_exists", id}, exists, lookupTTL, []string{"product"})
	return exists
}

// WarehouseName returns the display name for id.
func (r *CatalogRepository) WarehouseName(id uint) (string, bool) {
	if v, ok := r.cache.GetN("warehouse_name", id); ok {
		return v.(string), true
	}
	var wh warehouseEntity.Warehouse
	if err := r.db.Where("warehouse_id = ?", id).First(&wh).Error; err != nil {
		return "", false
	}
	r.cache.SetN([]interface{}{"warehouse_name", id}, wh.Name, lookupTTL, []string{"warehouse"})
	return wh.Name, true
}

// ProductName returns the display name for id.
func (r *CatalogRepository) ProductName(id uint) (string, bool) {
	if v, ok := r.cache.GetN("product_name", id); ok {
		return v.(string), true
	}
	var p productEntity.Product
	if err := r.db.Where("product_id = ?", id).First(&p).Error; err != nil {
		return "", false
	}
	r.cache.SetN([]interface{}{"product_name", id}, p.Name, lookupTTL, []string{"product"})
	return p.Name, true
}
