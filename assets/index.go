package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

var (
	bodyAudioPattern = regexp.MustCompile(`^post\.part([0-9]+).*\.mp3$`)
	unsafeIDChars    = regexp.MustCompile(`[^\w\s-]`)
)

// MissingAssetError reports a required input file that does not exist.
type MissingAssetError struct {
	Path string
	What string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("missing %s: %s", e.What, e.Path)
}

// Part is one numbered body segment.
type Part struct {
	Index int
	Audio string
	Image string
}

// Set is the discovered asset layout for one content item.
type Set struct {
	ContentID  string
	Dir        string
	TitleAudio string
	TitleImage string
	Body       []Part
	// Captions holds one text line per body part, in part order.
	Captions []string
	Comments []Part
}

// BodyAudio returns the body audio paths in part order.
func (s *Set) BodyAudio() []string {
	out := make([]string, len(s.Body))
	for i, p := range s.Body {
		out[i] = p.Audio
	}
	return out
}

// SanitizeID reduces a raw thread id to the characters used in asset paths.
func SanitizeID(raw string) string {
	return unsafeIDChars.ReplaceAllString(raw, "")
}

// ContentDir is the working directory of one content item.
func ContentDir(tempRoot, contentID string) string {
	return filepath.Join(tempRoot, contentID)
}

// Index discovers the title, body and comment assets for contentID under
// tempRoot. Only audio and the persisted captions must exist; image paths
// are where the rasterizer writes them.
func Index(tempRoot, contentID string, commentCount int) (*Set, error) {
	dir := ContentDir(tempRoot, contentID)
	mp3Dir := filepath.Join(dir, "mp3")
	pngDir := filepath.Join(dir, "png")

	set := &Set{
		ContentID:  contentID,
		Dir:        dir,
		TitleAudio: filepath.Join(mp3Dir, "title.mp3"),
		TitleImage: filepath.Join(pngDir, "title.png"),
	}

	if !exists(set.TitleAudio) {
		return nil, &MissingAssetError{Path: set.TitleAudio, What: "title audio"}
	}

	body, err := bodyParts(mp3Dir, pngDir)
	if err != nil {
		return nil, err
	}
	set.Body = body

	captions, err := LoadCaptions(filepath.Join(mp3Dir, "post.json"))
	if err != nil {
		return nil, err
	}
	set.Captions = captions

	for i := 0; i < commentCount; i++ {
		c := Part{
			Index: i,
			Audio: filepath.Join(mp3Dir, fmt.Sprintf("%d.mp3", i)),
			Image: filepath.Join(pngDir, fmt.Sprintf("comment_%d.png", i)),
		}
		if !exists(c.Audio) {
			return nil, &MissingAssetError{Path: c.Audio, What: "comment audio"}
		}
		if !exists(c.Image) {
			return nil, &MissingAssetError{Path: c.Image, What: "comment screenshot"}
		}
		set.Comments = append(set.Comments, c)
	}

	return set, nil
}

// bodyParts lists post.part<N>.mp3 files ordered by N. Parts must be
// numbered contiguously from zero.
func bodyParts(mp3Dir, pngDir string) ([]Part, error) {
	entries, err := os.ReadDir(mp3Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", mp3Dir, err)
	}

	var parts []Part
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := bodyAudioPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("bad part number in %s: %w", e.Name(), err)
		}
		parts = append(parts, Part{Index: n, Audio: filepath.Join(mp3Dir, e.Name())})
	}

	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Index != parts[j].Index {
			return parts[i].Index < parts[j].Index
		}
		return parts[i].Audio < parts[j].Audio
	})

	for i := range parts {
		if parts[i].Index != i {
			return nil, &MissingAssetError{
				Path: filepath.Join(mp3Dir, fmt.Sprintf("post.part%d.mp3", i)),
				What: "body audio",
			}
		}
		parts[i].Image = filepath.Join(pngDir, fmt.Sprintf("post.part%d.png", i))
	}
	return parts, nil
}

// LoadCaptions reads the persisted caption lines. A missing file yields no
// captions; count checks happen when clips are built.
func LoadCaptions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read captions: %w", err)
	}

	var captions []string
	if err := json.Unmarshal(data, &captions); err != nil {
		return nil, fmt.Errorf("failed to parse captions %s: %w", path, err)
	}
	return captions, nil
}

// SaveCaptions persists caption lines in the format LoadCaptions reads.
func SaveCaptions(path string, captions []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(captions)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
