package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// keyTag pins every key to one hash slot so scripts stay valid in cluster mode.
const keyTag = "{webhooks}"

// noLimit disables the attempt cap in insertScript.
const noLimit = -1

// insertScript appends one record and maintains the per-session counters.
// It refuses to insert once the session already holds limit records.
//
// KEYS: seq, session zset, sessions zset, counts hash
// ARGV: session id, record json without id, limit, created_at unix micros
var insertScript = redis.NewScript(`
local limit = tonumber(ARGV[3])
local count = tonumber(redis.call('HGET', KEYS[4], ARGV[1]) or '0')
if limit >= 0 and count >= limit then
	return {count, 0}
end
local id = redis.call('INCR', KEYS[1])
redis.call('ZADD', KEYS[2], id, '{"id":' .. id .. ',' .. string.sub(ARGV[2], 2))
redis.call('HINCRBY', KEYS[4], ARGV[1], 1)
local at = tonumber(ARGV[4])
local last = redis.call('ZSCORE', KEYS[3], ARGV[1])
if not last or tonumber(last) < at then
	redis.call('ZADD', KEYS[3], at, ARGV[1])
end
return {count, id}
`)

// deleteScript drops a session and returns how many records it held.
//
// KEYS: session zset, sessions zset, counts hash
// ARGV: session id
var deleteScript = redis.NewScript(`
local n = redis.call('ZCARD', KEYS[1])
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[1])
redis.call('HDEL', KEYS[3], ARGV[1])
return n
`)

// recordDTO is the Redis representation of a captured request. The id is
// spliced in by insertScript once INCR has assigned it.
type recordDTO struct {
	ID        int64             `json:"id,omitempty"`
	SessionID string            `json:"session_id"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	Body      *string           `json:"body"`
	CreatedAt time.Time         `json:"created_at"`
}

func toDTO(rec *entity.CapturedRequest) recordDTO {
	return recordDTO{
		SessionID: rec.SessionID,
		Method:    rec.Method,
		Headers:   rec.Headers,
		Body:      rec.Body,
		CreatedAt: rec.CreatedAt.UTC(),
	}
}

func toEntity(dto recordDTO) *entity.CapturedRequest {
	return &entity.CapturedRequest{
		ID:        dto.ID,
		SessionID: dto.SessionID,
		Method:    dto.Method,
		Headers:   dto.Headers,
		Body:      dto.Body,
		CreatedAt: dto.CreatedAt,
	}
}

// Store implements secondary.WebhookStore on Redis. Each session is a sorted
// set of JSON records scored by id; a second sorted set tracks sessions by
// last capture time and a hash holds per-session counts.
type Store struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// NewStore creates a Redis-backed webhook store. The store owns client and
// closes it on Close.
func NewStore(client redis.UniversalClient, prefix string, logger *zap.Logger) secondary.WebhookStore {
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger.Named("redis-store"),
	}
}

func (s *Store) seqKey() string      { return s.prefix + keyTag + ":seq" }
func (s *Store) sessionsKey() string { return s.prefix + keyTag + ":sessions" }
func (s *Store) countsKey() string   { return s.prefix + keyTag + ":count" }

func (s *Store) sessionKey(sessionID string) string {
	return s.prefix + keyTag + ":session:" + sessionID
}

// Insert stores rec and assigns its ID.
func (s *Store) Insert(ctx context.Context, rec *entity.CapturedRequest) error {
	_, _, err := s.insert(ctx, rec, noLimit)
	return err
}

// InsertIfBelow stores rec only while the session holds fewer than limit records.
func (s *Store) InsertIfBelow(ctx context.Context, rec *entity.CapturedRequest, limit int) (int, bool, error) {
	return s.insert(ctx, rec, limit)
}

func (s *Store) insert(ctx context.Context, rec *entity.CapturedRequest, limit int) (int, bool, error) {
	data, err := json.Marshal(toDTO(rec))
	if err != nil {
		return 0, false, fmt.Errorf("marshaling record: %w", err)
	}

	keys := []string{s.seqKey(), s.sessionKey(rec.SessionID), s.sessionsKey(), s.countsKey()}
	res, err := insertScript.Run(ctx, s.client, keys,
		rec.SessionID, string(data), limit, rec.CreatedAt.UnixMicro(),
	).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("inserting record in redis: %w", err)
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("unexpected insert script reply %v", res)
	}

	count, id := int(res[0]), res[1]
	if id == 0 {
		return count, false, nil
	}
	rec.ID = id
	return count, true, nil
}

// ListBySession returns the session's records ordered by capture time, then id.
func (s *Store) ListBySession(ctx context.Context, sessionID string) ([]*entity.CapturedRequest, error) {
	members, err := s.client.ZRange(ctx, s.sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing records from redis: %w", err)
	}

	records := make([]*entity.CapturedRequest, 0, len(members))
	for _, member := range members {
		var dto recordDTO
		if err := json.Unmarshal([]byte(member), &dto); err != nil {
			s.logger.Warn("invalid record data in redis",
				zap.Error(err),
				zap.String("session_id", sessionID),
			)
			continue
		}
		records = append(records, toEntity(dto))
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// CountBySession returns the number of records held for the session.
func (s *Store) CountBySession(ctx context.Context, sessionID string) (int, error) {
	n, err := s.client.HGet(ctx, s.countsKey(), sessionID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("counting records in redis: %w", err)
	}
	return n, nil
}

// DeleteBySession removes every record of the session and reports how many there were.
func (s *Store) DeleteBySession(ctx context.Context, sessionID string) (int, error) {
	keys := []string{s.sessionKey(sessionID), s.sessionsKey(), s.countsKey()}
	n, err := deleteScript.Run(ctx, s.client, keys, sessionID).Int()
	if err != nil {
		return 0, fmt.Errorf("deleting session from redis: %w", err)
	}
	return n, nil
}

// Sessions returns every session ordered by most recent capture.
func (s *Store) Sessions(ctx context.Context) ([]entity.SessionSummary, error) {
	var (
		last   *redis.ZSliceCmd
		counts *redis.MapStringStringCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		last = pipe.ZRangeWithScores(ctx, s.sessionsKey(), 0, -1)
		counts = pipe.HGetAll(ctx, s.countsKey())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading sessions from redis: %w", err)
	}

	summaries := make([]entity.SessionSummary, 0, len(last.Val()))
	for _, z := range last.Val() {
		sessionID, ok := z.Member.(string)
		if !ok {
			s.logger.Warn("unexpected member type in sessions set")
			continue
		}
		count, err := strconv.Atoi(counts.Val()[sessionID])
		if err != nil {
			s.logger.Warn("missing count for session", zap.String("session_id", sessionID))
			continue
		}
		summaries = append(summaries, entity.SessionSummary{
			SessionID:      sessionID,
			Count:          count,
			LastCapturedAt: time.UnixMicro(int64(z.Score)).UTC(),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].LastCapturedAt.Equal(summaries[j].LastCapturedAt) {
			return summaries[i].LastCapturedAt.After(summaries[j].LastCapturedAt)
		}
		return summaries[i].SessionID < summaries[j].SessionID
	})
	return summaries, nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
