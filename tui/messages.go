package tui

import "shortsmith/video"

// SceneLoadedMsg carries the result of a Loader call
type SceneLoadedMsg struct {
	Scene *video.Scene
	Err   error
}
