package helper

import (
	"lomaro_whatsapp/model"
	"lomaro_whatsapp/utils"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory CatalogGateway with a fixed menu:
// Pizzas (Margherita Regular 550 / Large 750), Burgers (Zinger 450 flat),
// one deal and one percentage promo.
type fakeCatalog struct {
	promos map[string]*model.PromoCode
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{promos: map[string]*model.PromoCode{}}
}

func (f *fakeCatalog) ListCategories() ([]Category, error) {
	return []Category{
		{Key: "pizzas", Name: "Pizzas"},
		{Key: "burgers", Name: "Burgers"},
	}, nil
}

func (f *fakeCatalog) margherita() model.MenuItem {
	return model.MenuItem{
		DTO:      model.DTO{ID: 1},
		Name:     "Margherita",
		Category: "Pizzas",
		IsActive: true,
		Sizes: []model.MenuItemSize{
			{Label: "Regular", Price: 550, Position: 1},
			{Label: "Large", Price: 750, Position: 2},
		},
	}
}

func (f *fakeCatalog) zinger() model.MenuItem {
	return model.MenuItem{
		DTO:      model.DTO{ID: 2},
		Name:     "Zinger Burger",
		Category: "Burgers",
		IsActive: true,
		Price:    utils.Ptr(450.0),
	}
}

func (f *fakeCatalog) ListItems(categoryName string) ([]model.MenuItem, error) {
	switch categoryName {
	case "Pizzas":
		return []model.MenuItem{f.margherita()}, nil
	case "Burgers":
		return []model.MenuItem{f.zinger()}, nil
	}
	return []model.MenuItem{}, nil
}

func (f *fakeCatalog) ListDeals() ([]model.Deal, error) {
	return []model.Deal{
		{
			DTO:      model.DTO{ID: 1},
			Code:     "Family Deal",
			Price:    1999,
			IsActive: true,
			Items: []model.DealItem{
				{ItemName: "2 Large Pizzas"},
				{ItemName: "1.5L Drink"},
			},
		},
	}, nil
}

func (f *fakeCatalog) ListToppings() ([]model.MenuItem, error) {
	return []model.MenuItem{}, nil
}

func (f *fakeCatalog) GetItem(id uint) (*model.MenuItem, error) {
	switch id {
	case 1:
		item := f.margherita()
		return &item, nil
	case 2:
		item := f.zinger()
		return &item, nil
	}
	return nil, nil
}

func (f *fakeCatalog) GetPromo(code string) (*model.PromoCode, error) {
	return f.promos[strings.ToUpper(code)], nil
}

func TestFullOrderConversation(t *testing.T) {
	catalog := newFakeCatalog()
	session := model.NewSession("923001234567")
	session.Language = model.LanguageEnglish

	tr := HandleUserMessage(catalog, session, "menu")
	assert.Equal(t, model.StateShowMenu, session.State)
	assert.Contains(t, tr.Reply, "1. Pizzas")
	assert.Contains(t, tr.Reply, "3. 🎁 Special Deals")

	tr = HandleUserMessage(catalog, session, "1")
	assert.Equal(t, model.StatePickItem, session.State)
	assert.Contains(t, tr.Reply, "Margherita")
	assert.Contains(t, tr.Reply, "from Rs. 550")

	tr = HandleUserMessage(catalog, session, "1")
	assert.Equal(t, model.StatePickSize, session.State)
	assert.Contains(t, tr.Reply, "1. Regular — Rs. 550")
	assert.Contains(t, tr.Reply, "2. Large — Rs. 750")

	tr = HandleUserMessage(catalog, session, "2")
	assert.Equal(t, model.StatePickQty, session.State)
	assert.Contains(t, tr.Reply, "Large")

	tr = HandleUserMessage(catalog, session, "3")
	assert.Equal(t, model.StateAddMore, session.State)
	require.Len(t, session.Cart, 1)
	assert.Equal(t, model.LineKindRegular, session.Cart[0].Kind)
	assert.Equal(t, 3, session.Cart[0].Qty)
	assert.Equal(t, 750.0, session.Cart[0].UnitPrice)
	assert.Equal(t, 2250.0, session.Cart[0].LineTotal)
	assert.Contains(t, tr.Reply, "Subtotal: Rs. 2250")

	tr = HandleUserMessage(catalog, session, "2")
	assert.Equal(t, model.StateAskName, session.State)

	tr = HandleUserMessage(catalog, session, "Ali Raza")
	assert.Equal(t, model.StateAskAddress, session.State)
	assert.Equal(t, "Ali Raza", session.CustomerName)

	tr = HandleUserMessage(catalog, session, "House 5, Millat Road, Faisalabad")
	assert.Equal(t, model.StateConfirmOrder, session.State)
	assert.Contains(t, tr.Reply, "Total: Rs. 2250")
	assert.Contains(t, tr.Reply, "Ali Raza")

	tr = HandleUserMessage(catalog, session, "yes")
	require.NotNil(t, tr.Finalize)
	draft := tr.Finalize
	assert.Equal(t, "923001234567", draft.Phone)
	assert.Equal(t, "Ali Raza", draft.Name)
	assert.Equal(t, "COD", draft.PaymentMethod)
	assert.Equal(t, "whatsapp", draft.Source)
	require.Len(t, draft.Cart, 1)
	assert.Equal(t, 2250.0, draft.Totals.Total)
}

func TestFlatPricedItemSkipsSizeStep(t *testing.T) {
	catalog := newFakeCatalog()
	session := model.NewSession("923009999999")
	session.Language = model.LanguageEnglish

	HandleUserMessage(catalog, session, "menu")
	HandleUserMessage(catalog, session, "2") // Burgers
	tr := HandleUserMessage(catalog, session, "1")
	assert.Equal(t, model.StatePickQty, session.State)
	assert.Contains(t, tr.Reply, "Zinger Burger")

	HandleUserMessage(catalog, session, "2")
	require.Len(t, session.Cart, 1)
	assert.Equal(t, "N/A", session.Cart[0].Size)
	assert.Equal(t, 900.0, session.Cart[0].LineTotal)
}

func TestDealSelectionAddsBundleLine(t *testing.T) {
	catalog := newFakeCatalog()
	session := model.NewSession("923001111111")
	session.Language = model.LanguageEnglish

	HandleUserMessage(catalog, session, "menu")
	tr := HandleUserMessage(catalog, session, "3") // last option = deals
	assert.Equal(t, model.StatePickDeal, session.State)
	assert.Contains(t, tr.Reply, "Family Deal")
	assert.Contains(t, tr.Reply, "2 Large Pizzas")

	HandleUserMessage(catalog, session, "1")
	require.Len(t, session.Cart, 1)
	line := session.Cart[0]
	assert.Equal(t, model.LineKindDeal, line.Kind)
	assert.Equal(t, "Family Deal", line.DealCode)
	assert.Equal(t, 1, line.Qty)
	assert.Equal(t, 1999.0, line.LineTotal)
	assert.Equal(t, []string{"2 Large Pizzas", "1.5L Drink"}, line.DealItems)
	assert.Equal(t, model.StateAddMore, session.State)
}

func TestRestartKeywordFromEveryState(t *testing.T) {
	catalog := newFakeCatalog()

	states := []string{
		model.StateIdle, model.StateShowMenu, model.StatePickDeal,
		model.StatePickItem, model.StatePickSize, model.StatePickQty,
		model.StateAddMore, model.StateAskName, model.StateAskAddress,
		model.StateConfirmOrder,
	}
	for _, state := range states {
		session := model.NewSession("923000000000")
		session.Language = model.LanguageEnglish
		session.State = state
		session.Cart = []model.CartLine{{Kind: model.LineKindRegular, ItemName: "Margherita", Qty: 1, LineTotal: 550}}

		tr := HandleUserMessage(catalog, session, "menu")
		assert.Equal(t, model.StateShowMenu, session.State, "state %s", state)
		assert.Empty(t, session.Cart, "state %s", state)
		assert.Contains(t, tr.Reply, "Select a Category")
	}
}

func TestQuantityBounds(t *testing.T) {
	catalog := newFakeCatalog()

	setup := func() *model.Session {
		session := model.NewSession("923002222222")
		session.Language = model.LanguageEnglish
		HandleUserMessage(catalog, session, "menu")
		HandleUserMessage(catalog, session, "1")
		HandleUserMessage(catalog, session, "1")
		HandleUserMessage(catalog, session, "1") // Regular 550
		return session
	}

	for _, bad := range []string{"0", "-1", "101", "abc"} {
		session := setup()
		tr := HandleUserMessage(catalog, session, bad)
		assert.Equal(t, model.StatePickQty, session.State, "input %q", bad)
		assert.Empty(t, session.Cart, "input %q", bad)
		assert.Contains(t, tr.Reply, "❌", "input %q", bad)
	}

	for _, good := range []string{"1", "100"} {
		session := setup()
		HandleUserMessage(catalog, session, good)
		assert.Equal(t, model.StateAddMore, session.State, "input %q", good)
		require.Len(t, session.Cart, 1, "input %q", good)
	}
}

func TestCartIsAppendOnly(t *testing.T) {
	catalog := newFakeCatalog()
	session := model.NewSession("923003333333")
	session.Language = model.LanguageEnglish

	HandleUserMessage(catalog, session, "menu")
	HandleUserMessage(catalog, session, "1")
	HandleUserMessage(catalog, session, "1")
	HandleUserMessage(catalog, session, "1")
	HandleUserMessage(catalog, session, "2")
	require.Len(t, session.Cart, 1)

	HandleUserMessage(catalog, session, "1") // add more
	HandleUserMessage(catalog, session, "2") // Burgers
	HandleUserMessage(catalog, session, "1")
	HandleUserMessage(catalog, session, "1")
	require.Len(t, session.Cart, 2)
	assert.Equal(t, "Margherita", session.Cart[0].ItemName)
	assert.Equal(t, "Zinger Burger", session.Cart[1].ItemName)
}

func TestGreetingOpensLanguageSelection(t *testing.T) {
	catalog := newFakeCatalog()
	session := model.NewSession("923004444444")

	tr := HandleUserMessage(catalog, session, "hi")
	assert.Equal(t, model.StatePickLanguage, session.State)
	assert.Contains(t, tr.Reply, "Select your language")

	tr = HandleUserMessage(catalog, session, "2")
	assert.Equal(t, model.LanguageUrdu, session.Language)
	assert.Equal(t, model.StateIdle, session.State)
	assert.Contains(t, tr.Reply, "خوش آمدید")

	// A customer with a language already set is not re-asked.
	tr = HandleUserMessage(catalog, session, "hello")
	assert.NotEqual(t, model.StatePickLanguage, session.State)
}

func TestCancelAtConfirmationResetsSession(t *testing.T) {
	catalog := newFakeCatalog()
	session := model.NewSession("923005555555")
	session.Language = model.LanguageEnglish
	session.State = model.StateConfirmOrder
	session.Cart = []model.CartLine{{Kind: model.LineKindRegular, ItemName: "Margherita", Qty: 1, LineTotal: 550}}
	session.CustomerName = "Ali Raza"

	tr := HandleUserMessage(catalog, session, "no")
	assert.Nil(t, tr.Finalize)
	assert.Equal(t, model.StateIdle, session.State)
	assert.Empty(t, session.Cart)
	// Contact details survive the reset for the next order.
	assert.Equal(t, "Ali Raza", session.CustomerName)
	assert.Contains(t, tr.Reply, "Order cancelled")
}

func TestInvalidOrdinalReprompts(t *testing.T) {
	catalog := newFakeCatalog()
	session := model.NewSession("923006666666")
	session.Language = model.LanguageEnglish

	HandleUserMessage(catalog, session, "menu")
	tr := HandleUserMessage(catalog, session, "9")
	assert.Equal(t, model.StateShowMenu, session.State)
	assert.Contains(t, tr.Reply, "❌")

	tr = HandleUserMessage(catalog, session, "pizza please")
	assert.Equal(t, model.StateShowMenu, session.State)
	assert.Contains(t, tr.Reply, "❌")
}
