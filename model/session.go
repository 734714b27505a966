package model

import "time"

// Conversation states. One session per phone number; the state names follow
// the steps the customer walks through.
const (
	StatePickLanguage = "pick_language"
	StateIdle         = "idle"
	StateShowMenu     = "show_menu"
	StatePickDeal     = "pick_deal"
	StatePickItem     = "pick_item"
	StatePickSize     = "pick_size"
	StatePickQty      = "pick_qty"
	StateAddMore      = "add_more"
	StateAskName      = "ask_name"
	StateAskAddress   = "ask_address"
	StateConfirmOrder = "confirm_order"
)

const (
	LanguageEnglish = "en"
	LanguageUrdu    = "ur"
)

// CartLine kinds. A line is either a regular item or a bundled deal,
// discriminated by Kind — never by which optional fields happen to be set.
const (
	LineKindRegular = "regular"
	LineKindDeal    = "deal"
)

// CartLine is one priced entry in the cart. Immutable once appended.
type CartLine struct {
	Kind      string   `json:"kind"`
	ItemName  string   `json:"item_name"`
	Size      string   `json:"size"` // "N/A" for flat-priced items
	Qty       int      `json:"qty"`
	UnitPrice float64  `json:"unit_price"`
	LineTotal float64  `json:"line_total"`
	DealCode  string   `json:"deal_code,omitempty"`
	DealItems []string `json:"deal_items,omitempty"`
}

// SizePrice keeps size options in display order (a map would lose the order
// the customer was shown, breaking ordinal replies).
type SizePrice struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// PendingSelection is the partially built line between item pick and cart
// commit. Cleared whenever a line is committed or the flow restarts.
type PendingSelection struct {
	CategoryName string      `json:"category_name,omitempty"`
	MenuItemId   uint        `json:"menu_item_id,omitempty"`
	ItemName     string      `json:"item_name,omitempty"`
	Sizes        []SizePrice `json:"sizes,omitempty"`
	Size         string      `json:"size,omitempty"`
	UnitPrice    float64     `json:"unit_price,omitempty"`
}

// Session is the whole conversation record for one phone number. It is read
// and written as a unit; partial updates are not part of the contract.
type Session struct {
	Phone           string           `json:"phone"`
	State           string           `json:"state"`
	Cart            []CartLine       `json:"cart"`
	Pending         PendingSelection `json:"temp_item"`
	CustomerName    string           `json:"customer_name,omitempty"`
	CustomerAddress string           `json:"customer_address,omitempty"`
	DeliveryNotes   string           `json:"delivery_notes,omitempty"`
	Language        string           `json:"language,omitempty"`
	PromoCode       string           `json:"promo_code,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewSession returns the default-initial session for an unseen phone.
func NewSession(phone string) *Session {
	return &Session{
		Phone:     phone,
		State:     StateIdle,
		Cart:      []CartLine{},
		UpdatedAt: time.Now(),
	}
}

// CartSubtotal sums committed line totals.
func (s *Session) CartSubtotal() float64 {

	total := 0.0
	for _, line := range s.Cart {
		total += line.LineTotal
	}
	return total
}

// ResetToMenu clears cart and pending selection and re-enters the menu.
func (s *Session) ResetToMenu() {
	s.State = StateShowMenu
	s.Cart = []CartLine{}
	s.Pending = PendingSelection{}
}

// ResetToIdle clears the whole conversation back to its initial state.
// Contact fields are kept so a returning customer is not re-asked.
func (s *Session) ResetToIdle() {
	s.State = StateIdle
	s.Cart = []CartLine{}
	s.Pending = PendingSelection{}
	s.PromoCode = ""
}
