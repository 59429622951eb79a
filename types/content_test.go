package types

import "testing"

func TestRenderRequestValidate(t *testing.T) {
	valid := RenderRequest{
		Content:       Content{ThreadID: "abc", ThreadTitle: "A title"},
		Background:    "minecraft",
		Length:        50,
		LogoPath:      "logo.png",
		AnimationPath: "anim.mp4",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cases := map[string]func(r *RenderRequest){
		"missing title":      func(r *RenderRequest) { r.Content.ThreadTitle = "" },
		"missing background": func(r *RenderRequest) { r.Background = "" },
		"zero length":        func(r *RenderRequest) { r.Length = 0 },
		"negative comments":  func(r *RenderRequest) { r.CommentCount = -1 },
		"missing logo":       func(r *RenderRequest) { r.LogoPath = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := valid
			mutate(&r)
			if err := r.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
