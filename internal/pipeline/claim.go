package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
)

// claimReleaseScript deletes the claim key only when this owner still
// holds it, so an expired claim taken over by another run is untouched.
const claimReleaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// Claimer serializes pipeline runs per submission with a redis lease.
// The lease expires on its own if the process dies mid-run.
type Claimer struct {
	client *redis.Client
	lease  time.Duration
	logger logger.Logger
}

func NewClaimer(client *redis.Client, lease time.Duration, log logger.Logger) *Claimer {
	return &Claimer{
		client: client,
		lease:  lease,
		logger: log.WithFields(map[string]interface{}{"component": "claimer"}),
	}
}

func claimKey(submissionID string) string {
	return fmt.Sprintf("pipeline:claim:%s", submissionID)
}

// Acquire attempts to take the processing claim for a submission. It
// returns a release func when acquired, and acquired=false when another
// run currently holds the claim.
func (c *Claimer) Acquire(ctx context.Context, submissionID string) (release func(), acquired bool, err error) {
	owner := uuid.New().String()
	key := claimKey(submissionID)

	ok, err := c.client.SetNX(ctx, key, owner, c.lease).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire claim for %s: %w", submissionID, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func() {
		// Release runs during cleanup; a fresh context keeps it working
		// after the run's own context is cancelled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.client.Eval(releaseCtx, claimReleaseScript, []string{key}, owner).Err(); err != nil {
			c.logger.Warn("claim release failed, lease will expire on its own", map[string]interface{}{
				"submissionId": submissionID,
				"error":        err.Error(),
			})
		}
	}
	return release, true, nil
}
