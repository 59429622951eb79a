package publish

import "context"

// Video is a finished render ready to leave the machine.
type Video struct {
	Path             string
	Filename         string
	Title            string
	ContentID        string
	Subreddit        string
	BackgroundCredit string
}

// Publisher ships a finished video somewhere and returns a reference to it.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, v Video) (string, error)
}
