package publish

import (
	"context"
	"path"

	"shortsmith/config"
)

// ObjectPutter uploads a local file under an object key.
type ObjectPutter interface {
	PutFile(ctx context.Context, key, path, contentType string) error
}

// S3Publisher copies renders into an object store as <prefix>/<subreddit>/<filename>.
type S3Publisher struct {
	Store  ObjectPutter
	Prefix string
}

func (p *S3Publisher) Name() string { return "s3" }

// ObjectKey is where v is stored.
func (p *S3Publisher) ObjectKey(v Video) string {
	return path.Join(p.Prefix, v.Subreddit, v.Filename)
}

// Publish uploads v and returns its object key.
func (p *S3Publisher) Publish(ctx context.Context, v Video) (string, error) {
	key := p.ObjectKey(v)
	config.Log.WithField("key", key).Info("Uploading render to object storage")
	if err := p.Store.PutFile(ctx, key, v.Path, "video/mp4"); err != nil {
		return "", err
	}
	return key, nil
}
