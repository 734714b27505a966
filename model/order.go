package model

type Order struct {
	DTO
	PublicCode      string      `gorm:"unique;size:40" json:"publicCode"` // LOM-{yyyyMMddHHmmss}-{last4}
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `gorm:"index" json:"customerPhone"`
	CustomerAddress string      `json:"customerAddress"`
	DeliveryNotes   string      `json:"deliveryNotes"`
	Subtotal        float64     `gorm:"type:decimal(10,2)" json:"subtotal"`
	Discount        float64     `gorm:"type:decimal(10,2)" json:"discount"`
	Tax             float64     `gorm:"type:decimal(10,2)" json:"tax"`
	TotalAmount     float64     `gorm:"type:decimal(10,2)" json:"totalAmount"`
	PaymentMethod   string      `json:"paymentMethod"` // COD, JAZZCASH, EASYPAISA...
	PromoCode       string      `json:"promoCode"`
	Status          string      `gorm:"default:'new';index" json:"status"` // new, confirmed_via_flow
	Source          string      `json:"source"`                            // whatsapp | whatsapp_flow
	Language        string      `json:"language"`
	Lines           []OrderLine `gorm:"foreignKey:OrderId" json:"lines"`
}

// OrderLine là snapshot bất biến của một CartLine tại thời điểm chốt đơn.
type OrderLine struct {
	DTO
	OrderId   uint    `gorm:"not null;index" json:"orderId"`
	Kind      string  `gorm:"not null" json:"kind"` // regular | deal
	ItemName  string  `gorm:"not null" json:"itemName"`
	Size      string  `json:"size"`
	Qty       int     `gorm:"not null" json:"qty"`
	UnitPrice float64 `gorm:"type:decimal(10,2)" json:"unitPrice"`
	LineTotal float64 `gorm:"type:decimal(10,2)" json:"lineTotal"`
	DealCode  string  `json:"dealCode,omitempty"`
	DealItems string  `json:"dealItems,omitempty"` // constituent item names, comma separated
}
