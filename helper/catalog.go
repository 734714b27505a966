package helper

import (
	"errors"
	"lomaro_whatsapp/database"
	"lomaro_whatsapp/model"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category là một mục trong menu chính.
type Category struct {
	Key  string `json:"id"`
	Name string `json:"title"`
}

// CatalogGateway is the read-only view of the live menu. Every conversation
// turn fetches fresh lists through it — ordinals the customer types are always
// validated against what the catalog holds now, never a cached copy.
type CatalogGateway interface {
	ListCategories() ([]Category, error)
	ListItems(categoryName string) ([]model.MenuItem, error)
	ListDeals() ([]model.Deal, error)
	ListToppings() ([]model.MenuItem, error)
	GetItem(id uint) (*model.MenuItem, error)
	GetPromo(code string) (*model.PromoCode, error)
}

// DBCatalog là CatalogGateway đọc từ postgres.
type DBCatalog struct {
	db *gorm.DB
}

func NewDBCatalog(db *gorm.DB) *DBCatalog {
	return &DBCatalog{db: db}
}

// DefaultCatalog dùng kết nối toàn cục.
func DefaultCatalog() *DBCatalog {
	return &DBCatalog{db: database.DB}
}

// toppingsCategoryKey: add-ons sống ở bước customize, không phải một mục menu.
const toppingsCategoryKey = "toppings"

func (c *DBCatalog) ListCategories() ([]Category, error) {
	var items []model.MenuItem
	if err := c.db.Where("is_active = ?", true).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return categoriesFromItems(items), nil
}

func categoriesFromItems(items []model.MenuItem) []Category {
	seen := map[string]bool{}
	categories := []Category{}
	for _, item := range items {
		if seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		key := item.CategoryKey
		if key == "" {
			key = slug.Make(item.Category)
		}
		if key == toppingsCategoryKey {
			continue
		}
		categories = append(categories, Category{Key: key, Name: item.Category})
	}
	return categories
}

func (c *DBCatalog) ListItems(categoryName string) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := c.db.
		Preload("Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Where("is_active = ? AND (category = ? OR category_key = ?)", true, categoryName, slug.Make(categoryName)).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *DBCatalog) ListDeals() ([]model.Deal, error) {
	var deals []model.Deal
	err := c.db.
		Preload("Items").
		Where("is_active = ?", true).
		Order("id asc").
		Find(&deals).Error
	if err != nil {
		return nil, err
	}
	return deals, nil
}

func (c *DBCatalog) ListToppings() ([]model.MenuItem, error) {
	return c.ListItems("Toppings")
}

func (c *DBCatalog) GetItem(id uint) (*model.MenuItem, error) {
	var item model.MenuItem
	err := c.db.
		Preload("Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetPromo tra mã khuyến mãi, không phân biệt hoa thường.
func (c *DBCatalog) GetPromo(code string) (*model.PromoCode, error) {
	var promo model.PromoCode
	err := c.db.Where("upper(code) = ?", strings.ToUpper(strings.TrimSpace(code))).First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// ItemSizeOptions trả về size theo thứ tự hiển thị.
func ItemSizeOptions(item *model.MenuItem) []model.SizePrice {
	sizes := make([]model.SizePrice, 0, len(item.Sizes))
	for _, s := range item.Sizes {
		sizes = append(sizes, model.SizePrice{Label: s.Label, Price: s.Price})
	}
	return sizes
}
