package model

// MenuItem là một món trong menu. Price = nil nghĩa là món bán theo size
// (xem Sizes), ngược lại bán theo giá cố định.
type MenuItem struct {
	DTO
	Name        string         `gorm:"not null" json:"name"`
	Category    string         `gorm:"not null;index" json:"category"`
	CategoryKey string         `gorm:"not null;index" json:"categoryKey"`
	Price       *float64       `gorm:"type:decimal(10,2)" json:"price,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"isActive"`
	Sizes       []MenuItemSize `gorm:"foreignKey:MenuItemId" json:"sizes,omitempty"`
}

type MenuItemSize struct {
	DTO
	MenuItemId uint    `gorm:"not null;index" json:"menuItemId"`
	Label      string  `gorm:"not null" json:"label"`
	Price      float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Position   int     `gorm:"default:0" json:"position"` // thứ tự hiển thị
}

// Deal gộp nhiều món với một giá cố định, số lượng luôn là 1.
type Deal struct {
	DTO
	Code     string     `gorm:"unique;not null" json:"code"`
	Price    float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive bool       `gorm:"default:true" json:"isActive"`
	Items    []DealItem `gorm:"foreignKey:DealId" json:"items"`
}

type DealItem struct {
	DTO
	DealId   uint   `gorm:"not null;index" json:"dealId"`
	ItemName string `gorm:"not null" json:"itemName"`
}
