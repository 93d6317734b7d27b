package service

import (
	"context"
	"fmt"
	"time"

	"clinicdesk/internal/domain/entity"
	"clinicdesk/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// Redis key prefixes for the waiting-room board
	RedisWaitingKeyPrefix    = "queue:waiting:"
	RedisNowServingKeyPrefix = "queue:now_serving:"
	RedisLastIssuedKeyPrefix = "queue:last_issued:"
)

// maxSetScript sets the key to the given number only if it is higher than
// the stored one. Issuance and consultation events can arrive out of order
// under concurrency; the board must never move backwards.
var maxSetScript = redis.NewScript(`
	local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
	local v = tonumber(ARGV[1])
	if v > cur then
		redis.call('SET', KEYS[1], v)
		redis.call('EXPIRE', KEYS[1], ARGV[2])
	end
	return v
`)

// decrFloorScript decrements a counter but never below zero.
var decrFloorScript = redis.NewScript(`
	local v = redis.call('DECR', KEYS[1])
	if v < 0 then
		redis.call('SET', KEYS[1], 0)
		return 0
	end
	return v
`)

// QueueBoard is the waiting-room display surface consumed by the token flow
type QueueBoard interface {
	TokenIssued(ctx context.Context, dayKey string, number int) error
	TokenStarted(ctx context.Context, dayKey string, number int) error
	TokenLeftQueue(ctx context.Context, dayKey string) error
	Board(ctx context.Context, dayKey string) (*BoardSnapshot, error)
}

// BoardSnapshot is what the waiting-room display shows
type BoardSnapshot struct {
	DayKey     string `json:"day_key"`
	NowServing int    `json:"now_serving"`
	Waiting    int    `json:"waiting"`
	LastIssued int    `json:"last_issued"`
}

// QueueBoardService keeps the live queue state for the waiting-room display
// in Redis. Redis holds a disposable projection of the tokens table; the
// database stays the source of truth and the keys are rebuilt from it on
// startup.
type QueueBoardService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	tokenRepo   repository.TokenRepository
	now         func() time.Time
}

func NewQueueBoardService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, tokenRepo repository.TokenRepository) *QueueBoardService {
	return &QueueBoardService{
		db:          db,
		redisClient: redisClient,
		log:         log,
		tokenRepo:   tokenRepo,
		now:         time.Now,
	}
}

// SyncOnStartup rebuilds today's board keys from the database. Should be
// called before accepting traffic so a Redis restart cannot leave a stale
// or empty board.
func (s *QueueBoardService) SyncOnStartup(ctx context.Context) error {
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	now := s.now()
	dayKey := now.Format(entity.DayKeyFormat)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	db := s.db.WithContext(ctx)

	lastIssued, err := s.tokenRepo.MaxNumberForDay(db, dayKey)
	if err != nil {
		return fmt.Errorf("query max token number for %s: %w", dayKey, err)
	}

	waiting, err := s.tokenRepo.CountOpenByIssuedRange(db, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("query open token count for %s: %w", dayKey, err)
	}

	nowServing, err := s.tokenRepo.CurrentInProgressNumber(db, dayKey)
	if err != nil {
		return fmt.Errorf("query in-progress token for %s: %w", dayKey, err)
	}

	ttl := s.boardTTL(dayStart)
	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, RedisLastIssuedKeyPrefix+dayKey, lastIssued, ttl)
	pipe.Set(ctx, RedisWaitingKeyPrefix+dayKey, waiting, ttl)
	pipe.Set(ctx, RedisNowServingKeyPrefix+dayKey, nowServing, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("board sync pipeline: %w", err)
	}

	s.log.Infof("Queue board synced for %s: last_issued=%d, waiting=%d, now_serving=%d",
		dayKey, lastIssued, waiting, nowServing)
	return nil
}

// TokenIssued records a freshly issued token on the board
func (s *QueueBoardService) TokenIssued(ctx context.Context, dayKey string, number int) error {
	ttl := s.boardTTLForDayKey(dayKey)
	ttlSecs := int(ttl / time.Second)

	if err := maxSetScript.Run(ctx, s.redisClient,
		[]string{RedisLastIssuedKeyPrefix + dayKey}, number, ttlSecs).Err(); err != nil {
		return fmt.Errorf("board last_issued for %s: %w", dayKey, err)
	}

	pipe := s.redisClient.TxPipeline()
	pipe.Incr(ctx, RedisWaitingKeyPrefix+dayKey)
	pipe.Expire(ctx, RedisWaitingKeyPrefix+dayKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("board waiting incr for %s: %w", dayKey, err)
	}
	return nil
}

// TokenStarted moves a token to the consultation room on the board
func (s *QueueBoardService) TokenStarted(ctx context.Context, dayKey string, number int) error {
	ttl := s.boardTTLForDayKey(dayKey)
	ttlSecs := int(ttl / time.Second)

	if err := maxSetScript.Run(ctx, s.redisClient,
		[]string{RedisNowServingKeyPrefix + dayKey}, number, ttlSecs).Err(); err != nil {
		return fmt.Errorf("board now_serving for %s: %w", dayKey, err)
	}
	if err := decrFloorScript.Run(ctx, s.redisClient,
		[]string{RedisWaitingKeyPrefix + dayKey}).Err(); err != nil {
		return fmt.Errorf("board waiting decr for %s: %w", dayKey, err)
	}
	return nil
}

// TokenLeftQueue removes a token cancelled straight from the waiting list
func (s *QueueBoardService) TokenLeftQueue(ctx context.Context, dayKey string) error {
	if err := decrFloorScript.Run(ctx, s.redisClient,
		[]string{RedisWaitingKeyPrefix + dayKey}).Err(); err != nil {
		return fmt.Errorf("board waiting decr for %s: %w", dayKey, err)
	}
	return nil
}

// Board returns the current waiting-room snapshot for the day
func (s *QueueBoardService) Board(ctx context.Context, dayKey string) (*BoardSnapshot, error) {
	values, err := s.redisClient.MGet(ctx,
		RedisNowServingKeyPrefix+dayKey,
		RedisWaitingKeyPrefix+dayKey,
		RedisLastIssuedKeyPrefix+dayKey,
	).Result()
	if err != nil {
		return nil, fmt.Errorf("board read for %s: %w", dayKey, err)
	}

	snapshot := &BoardSnapshot{DayKey: dayKey}
	snapshot.NowServing = redisInt(values[0])
	snapshot.Waiting = redisInt(values[1])
	snapshot.LastIssued = redisInt(values[2])
	return snapshot, nil
}

func redisInt(v interface{}) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	var n int
	fmt.Sscanf(s, "%d", &n)
	return n
}

// boardTTL keeps keys for 24 hours past the day they describe
func (s *QueueBoardService) boardTTL(dayStart time.Time) time.Duration {
	expireAt := dayStart.AddDate(0, 0, 2)
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}

func (s *QueueBoardService) boardTTLForDayKey(dayKey string) time.Duration {
	dayStart, err := time.ParseInLocation(entity.DayKeyFormat, dayKey, s.now().Location())
	if err != nil {
		return 48 * time.Hour
	}
	return s.boardTTL(dayStart)
}
