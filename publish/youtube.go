package publish

import (
	"context"
	"fmt"
	"os"

	"shortsmith/config"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const maxYouTubeTitle = 100

// Metadata is the snippet sent with an upload.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
}

// YouTubePublisher uploads renders with a service account.
type YouTubePublisher struct {
	service *youtube.Service
	privacy string
}

// NewYouTubePublisher authenticates with the service account JSON at serviceAccountFile.
func NewYouTubePublisher(ctx context.Context, serviceAccountFile string) (*YouTubePublisher, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}

	privacy := os.Getenv("YOUTUBE_PRIVACY")
	if privacy == "" {
		privacy = config.YouTubePrivacyStatus
	}
	return &YouTubePublisher{service: service, privacy: privacy}, nil
}

func (p *YouTubePublisher) Name() string { return "youtube" }

// Publish uploads v and returns the YouTube video id.
func (p *YouTubePublisher) Publish(ctx context.Context, v Video) (string, error) {
	file, err := os.Open(v.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}

	md := GenerateMetadata(v)
	log := config.Log.WithFields(logrus.Fields{"id": v.ContentID, "size_mb": float64(info.Size()) / (1024 * 1024)})
	log.Info("Uploading to YouTube")

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       md.Title,
			Description: md.Description,
			Tags:        md.Tags,
			CategoryId:  md.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           p.privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	resp, err := p.service.Videos.Insert([]string{"snippet", "status"}, video).Media(file).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	log.WithField("url", "https://youtube.com/shorts/"+resp.Id).Info("Uploaded")
	return resp.Id, nil
}

// GenerateMetadata derives the upload snippet from a render.
func GenerateMetadata(v Video) Metadata {
	title := v.Title
	if r := []rune(title); len(r) > maxYouTubeTitle {
		title = string(r[:maxYouTubeTitle-3]) + "..."
	}

	description := v.Title
	if v.Subreddit != "" {
		description += fmt.Sprintf("\n\nFrom r/%s", v.Subreddit)
	}
	if v.BackgroundCredit != "" {
		description += fmt.Sprintf("\nBackground credit: %s", v.BackgroundCredit)
	}
	description += "\n\n#shorts #reddit"

	tags := []string{"reddit", "shorts", "stories"}
	if v.Subreddit != "" {
		tags = append(tags, v.Subreddit)
	}

	return Metadata{
		Title:       title,
		Description: description,
		Tags:        tags,
		CategoryID:  config.YouTubeCategoryID,
	}
}
