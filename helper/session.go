package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"lomaro_whatsapp/config"
	"lomaro_whatsapp/model"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis khởi tạo kết nối redis dùng chung (session + pub/sub).
func InitRedis() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	RedisClient = redis.NewClient(&redis.Options{Addr: addr})
}

// SessionKey thống nhất tên key phiên chat theo số điện thoại.
func SessionKey(phone string) string {
	return fmt.Sprintf("lomaro:session:%s", phone)
}

// OrdersChannel là kênh redis phát đơn hàng mới cho dashboard.
const OrdersChannel = "lomaro:orders"

// SessionStore persists whole conversation records. Get never fails into a
// nil session: an unseen phone gets a fresh default record. Save overwrites
// the full record — the session is the unit of consistency.
type SessionStore interface {
	Get(ctx context.Context, phone string) (*model.Session, error)
	Save(ctx context.Context, phone string, session *model.Session) error
}

// sessionRedis là phần *redis.Client mà store dùng, tách ra để test được.
type sessionRedis interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisSessionStore lưu session dạng JSON blob, một key một số điện thoại.
type RedisSessionStore struct {
	rdb sessionRedis
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Get(ctx context.Context, phone string) (*model.Session, error) {
	raw, err := s.rdb.Get(ctx, SessionKey(phone)).Result()
	if err == redis.Nil {
		return model.NewSession(phone), nil
	}
	if err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		// Corrupt record: start over rather than wedging the conversation.
		log.Printf("[SESSION] corrupt session for %s, resetting: %v", phone, err)
		return model.NewSession(phone), nil
	}
	if session.Phone == "" {
		session.Phone = phone
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, phone string, session *model.Session) error {
	session.Phone = phone
	session.UpdatedAt = time.Now()
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	// Sessions are reset, never deleted — no TTL here.
	return s.rdb.Set(ctx, SessionKey(phone), raw, 0).Err()
}

// Per-phone locks. The store is whole-record read-then-write, so two webhook
// deliveries for the same phone (duplicate delivery is normal for the
// messaging provider) would otherwise race and silently drop a cart line.
var (
	phoneLocks = make(map[string]*sync.Mutex)
	phoneMu    sync.Mutex
)

// LockPhone serializes handling per phone number. Returns the unlock func.
func LockPhone(phone string) func() {
	phoneMu.Lock()
	lock, ok := phoneLocks[phone]
	if !ok {
		lock = &sync.Mutex{}
		phoneLocks[phone] = lock
	}
	phoneMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
