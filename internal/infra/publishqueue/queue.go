package publishqueue

import "context"

//go:generate mockgen -source=queue.go -destination=queue_mock.go -package=publishqueue

// PublishQueue hands a committed schedule to the publishing dispatcher
// so the post fires at its scheduled instant. Registration is
// best-effort; the scheduling commit stands without it.
type PublishQueue interface {
	RegisterPublish(ctx context.Context, task *PublishTask) (*TaskResponse, error)
}
