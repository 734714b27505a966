package helper

import (
	"context"
	"encoding/json"
	"log"
	"lomaro_whatsapp/database"
	"lomaro_whatsapp/model"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
)

var promoScheduler *cron.Cron
var sessionScheduler gocron.Scheduler

func StartPromoScheduler() {
	promoScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	// Every 5 minutes is enough, promos expire on date boundaries
	_, err := promoScheduler.AddFunc("*/5 * * * *", expirePromoCodes)
	if err != nil {
		log.Printf("Failed to init promo scheduler: %v", err)
		return
	}

	promoScheduler.Start()
	log.Println("Promo scheduler started (every 5 minutes)")
}

func expirePromoCodes() {
	now := time.Now()
	result := database.DB.Model(&model.PromoCode{}).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", "active", now).
		Update("status", "expired")

	if result.Error != nil {
		log.Printf("Failed to expire promo codes: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Marked %d promo codes as 'expired'", result.RowsAffected)
	}
}

func StopPromoScheduler() {
	if promoScheduler != nil {
		promoScheduler.Stop()
		log.Println("Promo scheduler stopped")
	}
}

// ResetStaleSessions drops conversations abandoned mid-order back to idle
// so the customer gets a fresh greeting next time they write in.
func ResetStaleSessions() {
	log.Println("[CRON] ResetStaleSessions triggered")

	if RedisClient == nil {
		return
	}
	ctx := context.Background()
	cutoff := time.Now().Add(-24 * time.Hour)

	var cursor uint64
	for {
		keys, next, err := RedisClient.Scan(ctx, cursor, SessionKey("*"), 100).Result()
		if err != nil {
			log.Printf("Failed to scan sessions: %v", err)
			return
		}
		for _, key := range keys {
			raw, err := RedisClient.Get(ctx, key).Result()
			if err != nil {
				continue
			}
			var session model.Session
			if err := json.Unmarshal([]byte(raw), &session); err != nil {
				continue
			}
			if session.State == model.StateIdle || session.UpdatedAt.After(cutoff) {
				continue
			}
			session.ResetToIdle()
			if data, err := json.Marshal(&session); err == nil {
				if err := RedisClient.Set(ctx, key, data, 0).Err(); err != nil {
					log.Printf("Failed to reset session %s: %v", key, err)
				} else {
					log.Printf("Reset stale session %s to idle", key)
				}
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
}

func StartSessionScheduler() {
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.FixedZone("PKT", 5*3600)),
	)
	if err != nil {
		log.Fatal(err)
	}

	sessionScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(4, 30, 0),
			),
		),
		gocron.NewTask(ResetStaleSessions),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("✅ Session cleanup scheduler started (04:30 PKT)")
}
