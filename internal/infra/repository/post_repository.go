package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
)

const (
	postKeyPrefix = "post:"

	// scheduledIndexKey is a sorted set of post ids scored by the unix
	// second of their scheduling instant.
	scheduledIndexKey = "posts:scheduled"

	// scoredIndexKey holds ids of posts that are both published and
	// carry an engagement score. Its cardinality drives the allocator
	// mode switch.
	scoredIndexKey = "posts:published_scored"
)

type postRecord struct {
	ID                 string     `json:"id"`
	Platform           string     `json:"platform"`
	Content            string     `json:"content"`
	ImageURL           string     `json:"image_url,omitempty"`
	BusinessName       string     `json:"business_name,omitempty"`
	ProductDescription string     `json:"product_description,omitempty"`
	TargetAudience     string     `json:"target_audience,omitempty"`
	Status             string     `json:"status"`
	ScheduledFor       *time.Time `json:"scheduled_for,omitempty"`
	EngagementScore    *int       `json:"engagement_score,omitempty"`
	CalendarEventID    string     `json:"calendar_event_id,omitempty"`
	CalendarEventLink  string     `json:"calendar_event_link,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func toRecord(post *domain.Post) postRecord {
	return postRecord{
		ID:                 post.ID,
		Platform:           post.Platform,
		Content:            post.Content,
		ImageURL:           post.ImageURL,
		BusinessName:       post.BusinessName,
		ProductDescription: post.ProductDescription,
		TargetAudience:     post.TargetAudience,
		Status:             post.Status.String(),
		ScheduledFor:       post.ScheduledFor,
		EngagementScore:    post.EngagementScore,
		CalendarEventID:    post.CalendarEventID,
		CalendarEventLink:  post.CalendarEventLink,
		CreatedAt:          post.CreatedAt,
	}
}

func (rec postRecord) toDomain() *domain.Post {
	return &domain.Post{
		ID:                 rec.ID,
		Platform:           rec.Platform,
		Content:            rec.Content,
		ImageURL:           rec.ImageURL,
		BusinessName:       rec.BusinessName,
		ProductDescription: rec.ProductDescription,
		TargetAudience:     rec.TargetAudience,
		Status:             domain.Status(rec.Status),
		ScheduledFor:       rec.ScheduledFor,
		EngagementScore:    rec.EngagementScore,
		CalendarEventID:    rec.CalendarEventID,
		CalendarEventLink:  rec.CalendarEventLink,
		CreatedAt:          rec.CreatedAt,
	}
}

type postRepository struct {
	client *redis.Client
}

func NewPostRepository(client *redis.Client) domain.PostRepository {
	return &postRepository{
		client: client,
	}
}

func (r *postRepository) SavePost(ctx context.Context, post *domain.Post) error {
	if post == nil || post.ID == "" {
		return ErrInvalidPostData
	}

	data, err := json.Marshal(toRecord(post))
	if err != nil {
		return ErrInvalidPostData
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, postKeyPrefix+post.ID, data, 0)

	if post.IsScheduled() {
		pipe.ZAdd(ctx, scheduledIndexKey, redis.Z{
			Score:  float64(post.ScheduledFor.UTC().Unix()),
			Member: post.ID,
		})
	} else {
		pipe.ZRem(ctx, scheduledIndexKey, post.ID)
	}

	if post.Status == domain.StatusPublished && post.HasEngagement() {
		pipe.SAdd(ctx, scoredIndexKey, post.ID)
	} else {
		pipe.SRem(ctx, scoredIndexKey, post.ID)
	}

	_, err = pipe.Exec(ctx)
	return err
}

func (r *postRepository) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	data, err := r.client.Get(ctx, postKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}

	var rec postRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, ErrInvalidPostData
	}

	return rec.toDomain(), nil
}

func (r *postRepository) ListPosts(ctx context.Context, filter domain.ListFilter) ([]*domain.Post, error) {
	posts := make([]*domain.Post, 0)

	iter := r.client.Scan(ctx, 0, postKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		post, err := r.GetPost(ctx, iter.Val()[len(postKeyPrefix):])
		if err != nil {
			if errors.Is(err, domain.ErrPostNotFound) {
				continue
			}
			return nil, err
		}

		if filter.Status != "" && post.Status != filter.Status {
			continue
		}
		if filter.Platform != "" && post.Platform != filter.Platform {
			continue
		}

		posts = append(posts, post)
		if filter.Limit > 0 && len(posts) >= filter.Limit {
			break
		}
	}

	if err := iter.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) CountPublishedWithScore(ctx context.Context) (int, error) {
	count, err := r.client.SCard(ctx, scoredIndexKey).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *postRepository) FindScheduledInRange(ctx context.Context, start, end time.Time) ([]*domain.Post, error) {
	ids, err := r.client.ZRangeByScore(ctx, scheduledIndexKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(start.UTC().Unix(), 10),
		Max: strconv.FormatInt(end.UTC().Unix(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	posts := make([]*domain.Post, 0, len(ids))
	for _, id := range ids {
		post, err := r.GetPost(ctx, id)
		if err != nil {
			// A dangling index entry; the document owns the truth.
			if errors.Is(err, domain.ErrPostNotFound) {
				continue
			}
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, nil
}

func (r *postRepository) FindPublishedWithScore(ctx context.Context) ([]domain.EngagementSample, error) {
	ids, err := r.client.SMembers(ctx, scoredIndexKey).Result()
	if err != nil {
		return nil, err
	}

	samples := make([]domain.EngagementSample, 0, len(ids))
	for _, id := range ids {
		post, err := r.GetPost(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrPostNotFound) {
				continue
			}
			return nil, err
		}
		if !post.HasEngagement() {
			continue
		}

		sample := domain.EngagementSample{Score: *post.EngagementScore}
		if post.ScheduledFor != nil {
			sample.ScheduledFor = *post.ScheduledFor
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

func (r *postRepository) FindScheduledAt(ctx context.Context, instant time.Time) (*domain.Post, error) {
	unix := strconv.FormatInt(instant.UTC().Unix(), 10)
	ids, err := r.client.ZRangeByScore(ctx, scheduledIndexKey, &redis.ZRangeBy{
		Min: unix,
		Max: unix,
	}).Result()
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		post, err := r.GetPost(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrPostNotFound) {
				continue
			}
			return nil, err
		}
		return post, nil
	}

	return nil, domain.ErrPostNotFound
}

func (r *postRepository) WriteSchedule(ctx context.Context, id string, instant time.Time) (bool, error) {
	post, err := r.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return false, nil
		}
		return false, err
	}

	utc := instant.UTC()
	post.Status = domain.StatusScheduled
	post.ScheduledFor = &utc

	if err := r.SavePost(ctx, post); err != nil {
		return false, err
	}
	return true, nil
}

func (r *postRepository) WriteEngagement(ctx context.Context, id string, score int) (bool, error) {
	post, err := r.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return false, nil
		}
		return false, err
	}

	post.EngagementScore = &score

	if err := r.SavePost(ctx, post); err != nil {
		return false, err
	}
	return true, nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (bool, error) {
	if !status.Valid() {
		return false, domain.ErrInvalidStatus
	}

	post, err := r.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return false, nil
		}
		return false, err
	}

	post.Status = status

	if err := r.SavePost(ctx, post); err != nil {
		return false, err
	}
	return true, nil
}

func (r *postRepository) SetCalendarEvent(ctx context.Context, id, eventID, eventLink string) error {
	post, err := r.GetPost(ctx, id)
	if err != nil {
		return err
	}

	post.CalendarEventID = eventID
	post.CalendarEventLink = eventLink

	return r.SavePost(ctx, post)
}
