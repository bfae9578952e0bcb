package publishqueue

import "time"

type PublishTask struct {
	// ScheduleAt is transport metadata, not payload.
	ScheduleAt time.Time `json:"-"`

	PostID   string `json:"post_id"`
	Platform string `json:"platform"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type dispatcherTaskRequest struct {
	Task dispatcherTask `json:"task"`
}

type dispatcherTask struct {
	HTTPRequest  dispatcherHTTPRequest `json:"httpRequest"`
	ScheduleTime string                `json:"scheduleTime,omitempty"`
}

type dispatcherHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type dispatcherTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
