package sink

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"sjsage522/livehsworker/internal/schedule"
	"sjsage522/livehsworker/logger"
	"sjsage522/livehsworker/pkg/errors"
)

// RedisSink implements Sink using one Redis stream per run
type RedisSink struct {
	client          *redis.Client
	streamPrefix    string
	streamMaxLength int64
	now             func() time.Time
	log             *logger.Logger
}

// NewRedisSink creates a Redis sink and checks the server is reachable
func NewRedisSink(ctx context.Context, addr string, db int, streamPrefix string, streamMaxLength int) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.NewSink("redis", "ping "+addr, err)
	}

	return &RedisSink{
		client:          client,
		streamPrefix:    streamPrefix,
		streamMaxLength: int64(streamMaxLength),
		now:             time.Now,
		log:             logger.ForSink("redis"),
	}, nil
}

// StreamName returns the stream holding a run's records
func (s *RedisSink) StreamName(runID string) string {
	return s.streamPrefix + ":" + runID
}

// Persist appends every record to the run stream and records the run summary,
// all inside one MULTI/EXEC transaction.
// Each record is JSON encoded, then base64 encoded
func (s *RedisSink) Persist(ctx context.Context, runID string, records []schedule.Record) error {
	stream := s.StreamName(runID)

	encoded := make([]string, len(records))
	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return errors.NewSink("redis", "marshal record", err)
		}
		encoded[i] = base64.StdEncoding.EncodeToString(data)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, r := range records {
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: stream,
				MaxLen: s.streamMaxLength,
				Approx: true,
				Values: map[string]interface{}{
					"idx":          strconv.Itoa(i),
					"fingerprint":  string(schedule.Fingerprint(r)),
					"b64_schedule": encoded[i],
				},
			})
		}
		pipe.HSet(ctx, s.streamPrefix+":run:"+runID, map[string]interface{}{
			"run_time": s.now().Format(time.RFC3339),
			"total":    len(records),
			"stream":   stream,
		})
		pipe.RPush(ctx, s.streamPrefix+":runs", runID)
		return nil
	})
	if err != nil {
		return errors.NewSink("redis", "persist run "+runID, err)
	}

	s.log.Info().Str("run_id", runID).Str("stream", stream).Int("total", len(records)).Msg("Persisted crawl run")
	return nil
}

// Close closes the Redis connection
func (s *RedisSink) Close() error {
	return s.client.Close()
}
