package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/loadboard/access-api/internal/api/metrics"
	"github.com/loadboard/access-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// PresenceRecorder applies last-seen refreshes off the request path. Touches
// for the same user always land on the same worker (fnv shard on user id),
// so writes for one user stay ordered; a full shard drops the touch rather
// than stalling a request.
type PresenceRecorder struct {
	workers []chan string
	users   ports.UserRepository
	log     zerolog.Logger
}

// NewPresenceRecorder creates a recorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewPresenceRecorder(numWorkers int, users ports.UserRepository, log zerolog.Logger) *PresenceRecorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &PresenceRecorder{
		workers: make([]chan string, numWorkers),
		users:   users,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan string, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *PresenceRecorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Touch enqueues a last-seen refresh for userID. Never blocks.
func (r *PresenceRecorder) Touch(userID string) {
	select {
	case r.workers[r.shardIndex(userID)] <- userID:
	default:
		metrics.PresenceTouchesDropped.Inc()
	}
}

func (r *PresenceRecorder) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(r.workers)
}

func (r *PresenceRecorder) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case userID, ok := <-ch:
			if !ok {
				return
			}
			if err := r.users.TouchOnline(ctx, userID, time.Now().UTC()); err != nil {
				r.log.Error().Err(err).
					Str("user_id", userID).
					Int("worker_id", id).
					Msg("presence update failed")
			}
		}
	}
}
