package types

import "github.com/go-playground/validator/v10"

// Content is the source thread a video is made from.
type Content struct {
	ThreadID    string `json:"thread_id" validate:"required"`
	ThreadTitle string `json:"thread_title" validate:"required"`
	ThreadURL   string `json:"thread_url,omitempty"`
}

// RenderRequest is the job payload accepted over HTTP, Kafka and from
// batch input files.
type RenderRequest struct {
	Content       Content `json:"content"`
	Background    string  `json:"background" validate:"required"`
	Length        float64 `json:"length" validate:"gt=0"`
	CommentCount  int     `json:"comment_count" validate:"gte=0"`
	LogoPath      string  `json:"logo_path" validate:"required"`
	AnimationPath string  `json:"animation_path" validate:"required"`
	Publish       bool    `json:"publish,omitempty"`
}

// RenderResult describes a finished video.
type RenderResult struct {
	ContentID string  `json:"content_id"`
	Path      string  `json:"path"`
	Filename  string  `json:"filename"`
	Duration  float64 `json:"duration"`
	VideoID   string  `json:"video_id,omitempty"`
	ObjectKey string  `json:"object_key,omitempty"`
}

var validate = validator.New()

// Validate checks the request's field constraints.
func (r RenderRequest) Validate() error {
	return validate.Struct(r)
}
