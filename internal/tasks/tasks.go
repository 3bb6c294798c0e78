package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // registered for image.Decode
	"log"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"

	"finboard/dashboard/internal/cache"
	"finboard/dashboard/internal/config"
	"finboard/dashboard/internal/services"
	"finboard/dashboard/internal/storage"
)

// Task types handled by the background worker.
const (
	TypeCacheInvalidate = "cache:invalidate"
	TypeAvatarProcess   = "avatar:process"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// Enqueuer is the subset of asynq.Client used to hand off tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CacheInvalidatePayload names the listing path to mark stale.
type CacheInvalidatePayload struct {
	Path string `json:"path"`
}

// AvatarProcessPayload identifies an uploaded raw avatar to process.
type AvatarProcessPayload struct {
	CustomerID string `json:"customer_id"`
	S3Key      string `json:"s3_key"`
}

// Invalidator is an asynq-backed cache.Invalidator: it only enqueues the
// invalidation request, making the pipeline's invalidation fire-and-forget.
// The background worker performs the actual cache deletion.
type Invalidator struct {
	client Enqueuer
}

// NewInvalidator wraps a task client as a cache.Invalidator.
func NewInvalidator(client Enqueuer) *Invalidator {
	return &Invalidator{client: client}
}

var _ cache.Invalidator = (*Invalidator)(nil)

func (i *Invalidator) Invalidate(ctx context.Context, path string) error {
	payload, err := json.Marshal(CacheInvalidatePayload{Path: path})
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation payload: %w", err)
	}
	task := asynq.NewTask(TypeCacheInvalidate, payload, asynq.Queue("critical"))
	if _, err := i.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue invalidation of %s: %w", path, err)
	}
	return nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg             *config.Config
	pathCache       *cache.PathCache
	avatarStorage   storage.IAvatarStorage
	customerService services.ICustomerService
}

func NewTaskProcessor(
	cfg *config.Config,
	pathCache *cache.PathCache,
	avatarStorage storage.IAvatarStorage,
	customerService services.ICustomerService,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:             cfg,
		pathCache:       pathCache,
		avatarStorage:   avatarStorage,
		customerService: customerService,
	}
}

// SetupServer configures an Asynq server and the mux routing tasks to the
// processor's handlers.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCacheInvalidate, processor.HandleCacheInvalidateTask)
	mux.HandleFunc(TypeAvatarProcess, processor.HandleAvatarProcessTask)

	return srv, mux
}

// HandleCacheInvalidateTask drops every cached variant of the named path.
func (p *TaskProcessor) HandleCacheInvalidateTask(ctx context.Context, t *asynq.Task) error {
	var payload CacheInvalidatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal invalidation payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Path == "" {
		return fmt.Errorf("empty path in invalidation payload: %w", asynq.SkipRetry)
	}

	if err := p.pathCache.Invalidate(ctx, payload.Path); err != nil {
		// Retryable: Redis may be briefly unavailable.
		return err
	}
	log.Printf("Invalidated cached path %s", payload.Path)
	return nil
}

// HandleAvatarProcessTask downloads an uploaded raw avatar, resizes it to the
// configured maximum dimension, re-uploads it as JPEG and stores the final
// URL on the customer.
func (p *TaskProcessor) HandleAvatarProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload AvatarProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal avatar task payload: %v: %w", err, asynq.SkipRetry)
	}

	imgData, err := p.avatarStorage.Download(ctx, payload.S3Key)
	if err != nil {
		return fmt.Errorf("failed to download avatar %s: %w", payload.S3Key, err)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		log.Printf("Error decoding avatar %s: %v", payload.S3Key, err)
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}
	log.Printf("Decoded avatar %s, format: %s, size: %dx%d", payload.S3Key, format, img.Bounds().Dx(), img.Bounds().Dy())

	maxDim := uint(p.cfg.AvatarMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode avatar %s: %w", payload.S3Key, err)
	}

	processedKey := fmt.Sprintf("avatars/%s/avatar.jpg", payload.CustomerID)
	if err := p.avatarStorage.Upload(ctx, processedKey, buf.Bytes(), "image/jpeg"); err != nil {
		return fmt.Errorf("failed to upload processed avatar: %w", err)
	}

	url := p.avatarStorage.PublicURL(processedKey)
	if err := p.customerService.SetAvatarURL(ctx, payload.CustomerID, url); err != nil {
		return fmt.Errorf("failed to store avatar URL for customer %s: %w", payload.CustomerID, err)
	}

	log.Printf("Processed avatar for customer %s -> %s", payload.CustomerID, url)
	return nil
}
