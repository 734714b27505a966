package database

import (
	"log"
	"lomaro_whatsapp/constants"
	"lomaro_whatsapp/model"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func parseDate(dateStr string) *time.Time {
	t, _ := time.Parse("2006-01-02", dateStr)
	return &t
}

type seedItem struct {
	Name  string
	Price float64            // 0 nếu bán theo size
	Sizes []model.SizePrice  // giữ thứ tự hiển thị
}

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("lomaro123"), 10)
	HashPassword := string(bytes)
	if err != nil {
		HashPassword = "lomaro123"
	}
	accounts := []model.Account{
		{Username: "Administration", Password: HashPassword, Active: true, Role: constants.ROLE_ADMIN},
	}

	for _, account := range accounts {
		// Tạo mới nếu không tồn tại
		if err := db.Where(model.Account{Username: account.Username}).FirstOrCreate(&account).Error; err != nil {
			log.Println("failed to seed data for account:", account.Username, "error:", err)
		}
	}

	menu := map[string][]seedItem{
		"Starters": {
			{Name: "Hot Wings (6 pcs)", Price: 450},
			{Name: "Nuggets (8 pcs)", Price: 500},
		},
		"Traditional Pizza": {
			{Name: "Margherita", Sizes: []model.SizePrice{{Label: "Regular", Price: 550}, {Label: "Large", Price: 750}, {Label: "XL", Price: 1050}}},
			{Name: "Chicken Tikka", Sizes: []model.SizePrice{{Label: "Regular", Price: 650}, {Label: "Large", Price: 950}, {Label: "XL", Price: 1250}}},
			{Name: "Chicken Fajita", Sizes: []model.SizePrice{{Label: "Regular", Price: 650}, {Label: "Large", Price: 950}, {Label: "XL", Price: 1250}}},
		},
		"Special Pizza": {
			{Name: "Chicken Supreme", Sizes: []model.SizePrice{{Label: "Regular", Price: 850}, {Label: "Large", Price: 1150}}},
			{Name: "Pepperoni", Sizes: []model.SizePrice{{Label: "Regular", Price: 750}, {Label: "Large", Price: 1050}}},
		},
		"Burgers": {
			{Name: "Zinger Burger", Price: 450},
			{Name: "Beef Burger", Price: 500},
			{Name: "Tower Burger", Price: 650},
		},
		"French Fries": {
			{Name: "Regular Fries", Price: 250},
			{Name: "Loaded Fries", Price: 450},
		},
		"Cold Drinks": {
			{Name: "Soft Drink (500ml)", Price: 120},
			{Name: "Soft Drink (1.5L)", Price: 250},
			{Name: "Mineral Water", Price: 80},
		},
		"Toppings": {
			{Name: "Extra Cheese", Sizes: []model.SizePrice{{Label: "Regular", Price: 100}, {Label: "Large", Price: 150}}},
			{Name: "Olives", Sizes: []model.SizePrice{{Label: "Regular", Price: 80}, {Label: "Large", Price: 120}}},
			{Name: "Mushrooms", Sizes: []model.SizePrice{{Label: "Regular", Price: 60}, {Label: "Large", Price: 100}}},
		},
	}

	for category, items := range menu {
		for _, it := range items {
			menuItem := model.MenuItem{
				Name:        it.Name,
				Category:    category,
				CategoryKey: slug.Make(category),
				IsActive:    true,
			}
			if len(it.Sizes) == 0 {
				price := it.Price
				menuItem.Price = &price
			}
			if err := db.Where(model.MenuItem{Name: it.Name, Category: category}).FirstOrCreate(&menuItem).Error; err != nil {
				log.Println("failed to seed menu item:", it.Name, "error:", err)
				continue
			}
			for pos, sz := range it.Sizes {
				size := model.MenuItemSize{
					MenuItemId: menuItem.ID,
					Label:      sz.Label,
					Price:      sz.Price,
					Position:   pos,
				}
				if err := db.Where(model.MenuItemSize{MenuItemId: menuItem.ID, Label: sz.Label}).FirstOrCreate(&size).Error; err != nil {
					log.Println("failed to seed size:", it.Name, sz.Label, "error:", err)
				}
			}
		}
	}

	deals := []struct {
		Code  string
		Price float64
		Items []string
	}{
		{Code: "Deal 1", Price: 999, Items: []string{"Margherita (Regular)", "Soft Drink (500ml)", "Regular Fries"}},
		{Code: "Deal 2", Price: 1599, Items: []string{"Chicken Tikka (Large)", "Hot Wings (6 pcs)", "Soft Drink (1.5L)"}},
		{Code: "Family Deal", Price: 2499, Items: []string{"Chicken Supreme (Large)", "Zinger Burger", "Loaded Fries", "Soft Drink (1.5L)"}},
	}
	for _, d := range deals {
		deal := model.Deal{Code: d.Code, Price: d.Price, IsActive: true}
		if err := db.Where(model.Deal{Code: d.Code}).FirstOrCreate(&deal).Error; err != nil {
			log.Println("failed to seed deal:", d.Code, "error:", err)
			continue
		}
		for _, name := range d.Items {
			item := model.DealItem{DealId: deal.ID, ItemName: name}
			if err := db.Where(model.DealItem{DealId: deal.ID, ItemName: name}).FirstOrCreate(&item).Error; err != nil {
				log.Println("failed to seed deal item:", d.Code, name, "error:", err)
			}
		}
	}

	promos := []model.PromoCode{
		{Code: "SAVE10", Description: "10% off orders above Rs. 1000", DiscountType: "percentage", DiscountValue: 10, MinOrder: 1000, Status: "active"},
		{Code: "FLAT200", Description: "Flat Rs. 200 off orders above Rs. 1500", DiscountType: "fixed", DiscountValue: 200, MinOrder: 1500, Status: "active"},
		{Code: "EIDSPECIAL", Description: "15% off, Eid week only", DiscountType: "percentage", DiscountValue: 15, MinOrder: 0, ValidFrom: parseDate("2026-03-19"), ValidUntil: parseDate("2026-03-26"), Status: "active"},
	}
	for _, promo := range promos {
		if err := db.Where(model.PromoCode{Code: promo.Code}).FirstOrCreate(&promo).Error; err != nil {
			log.Println("failed to seed promo:", promo.Code, "error:", err)
		}
	}
}
