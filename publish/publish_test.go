package publish

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

type fakePutter struct {
	key, path, contentType string
	err                    error
}

func (f *fakePutter) PutFile(_ context.Context, key, path, contentType string) error {
	f.key, f.path, f.contentType = key, path, contentType
	return f.err
}

func TestS3PublisherKey(t *testing.T) {
	store := &fakePutter{}
	p := &S3Publisher{Store: store, Prefix: "renders"}
	v := Video{Path: "results/AskReddit/a.mp4", Filename: "a.mp4", Subreddit: "AskReddit"}

	key, err := p.Publish(context.Background(), v)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if key != "renders/AskReddit/a.mp4" || store.key != key {
		t.Fatalf("key = %q, stored %q", key, store.key)
	}
	if store.path != v.Path || store.contentType != "video/mp4" {
		t.Fatalf("unexpected upload: %+v", store)
	}
}

func TestS3PublisherError(t *testing.T) {
	boom := errors.New("denied")
	p := &S3Publisher{Store: &fakePutter{err: boom}}
	if _, err := p.Publish(context.Background(), Video{Filename: "a.mp4"}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestGenerateMetadata(t *testing.T) {
	md := GenerateMetadata(Video{
		Title:            strings.Repeat("ö", 150),
		Subreddit:        "AskReddit",
		BackgroundCredit: "bbswitzer",
	})
	if utf8.RuneCountInString(md.Title) != 100 || !strings.HasSuffix(md.Title, "...") {
		t.Fatalf("title not capped: %d runes", utf8.RuneCountInString(md.Title))
	}
	if !strings.Contains(md.Description, "Background credit: bbswitzer") {
		t.Fatalf("description missing credit: %q", md.Description)
	}
	if md.CategoryID != "24" {
		t.Fatalf("CategoryID = %q", md.CategoryID)
	}
	if md.Tags[len(md.Tags)-1] != "AskReddit" {
		t.Fatalf("tags = %v", md.Tags)
	}
}
