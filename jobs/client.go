package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer is the subset of *asynq.Client the Client needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client submits portal tasks to the default queue.
type Client struct {
	client Enqueuer
}

// NewClient connects an asynq client to Redis.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// NewClientWith wraps an existing enqueuer.
func NewClientWith(e Enqueuer) *Client {
	return &Client{client: e}
}

// EnqueueSendEmail queues a transactional email.
func (c *Client) EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) error {
	task, err := NewSendEmailTask(payload)
	return c.enqueue(ctx, task, err)
}

// EnqueueWeatherWarmup queues a forecast warmup. A warmup already waiting
// in the queue absorbs the request.
func (c *Client) EnqueueWeatherWarmup(ctx context.Context, cities []string) error {
	task, err := NewWeatherWarmupTask(cities)
	return c.enqueue(ctx, task, err, asynq.Unique(time.Minute))
}

// EnqueueCacheBump queues an invalidation of every cached backend response.
func (c *Client) EnqueueCacheBump(ctx context.Context, reason string) error {
	task, err := NewCacheBumpTask(reason)
	return c.enqueue(ctx, task, err)
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, buildErr error, opts ...asynq.Option) error {
	if buildErr != nil {
		return buildErr
	}
	opts = append([]asynq.Option{asynq.Queue(QueueDefault)}, opts...)
	_, err := c.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
