package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"shortsmith/datalog"
	"shortsmith/pipeline"
	"shortsmith/types"

	"github.com/gin-gonic/gin"
)

type fakeService struct {
	mu    sync.Mutex
	store datalog.Store
	err   error
	got   []types.RenderRequest
}

func (f *fakeService) Process(_ context.Context, req types.RenderRequest) (*types.RenderResult, error) {
	f.mu.Lock()
	f.got = append(f.got, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &types.RenderResult{ContentID: req.Content.ThreadID, Filename: "x.mp4"}, nil
}

func (f *fakeService) Store() datalog.Store { return f.store }

func newTestRouter(t *testing.T, svc *fakeService) (*gin.Engine, *RenderController) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if svc.store == nil {
		svc.store = datalog.NewJSONStore(filepath.Join(t.TempDir(), "videos.json"))
	}
	r := gin.New()
	rc := NewRenderController(svc)
	RegisterRenderRoutes(r, rc)
	RegisterHealthRoutes(r)
	return r, rc
}

const validBody = `{"content":{"thread_id":"abc","thread_title":"Title"},"background":"minecraft","length":40,"logo_path":"logo.png","animation_path":"anim.mp4"}`

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRenderAcceptedAndTracked(t *testing.T) {
	svc := &fakeService{}
	r, rc := newTestRouter(t, svc)

	w := do(r, http.MethodPost, "/api/render", validBody)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var accepted JobStatus
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if accepted.ID == "" || accepted.ContentID != "abc" {
		t.Fatalf("unexpected job: %+v", accepted)
	}

	rc.Wait()
	w = do(r, http.MethodGet, "/api/render/"+accepted.ID, "")
	var job JobStatus
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.Status != JobDone || job.Result == nil || job.Result.Filename != "x.mp4" {
		t.Fatalf("unexpected job state: %+v", job)
	}
}

func TestRenderFailureStates(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{errors.New("ffmpeg exploded"), JobFailed},
		{pipeline.ErrAlreadyRendered, JobSkipped},
		{pipeline.ErrInProgress, JobSkipped},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			r, rc := newTestRouter(t, &fakeService{err: c.err})
			w := do(r, http.MethodPost, "/api/render", validBody)
			var accepted JobStatus
			_ = json.Unmarshal(w.Body.Bytes(), &accepted)
			rc.Wait()
			job := rc.snapshot(accepted.ID)
			if job == nil || job.Status != c.want || job.Error == "" {
				t.Fatalf("unexpected job: %+v", job)
			}
		})
	}
}

func TestRenderRejectsBadRequests(t *testing.T) {
	svc := &fakeService{}
	r, _ := newTestRouter(t, svc)

	for name, body := range map[string]string{
		"malformed":          `{"content":`,
		"missing length":     `{"content":{"thread_id":"abc","thread_title":"T"},"background":"minecraft","logo_path":"l","animation_path":"a"}`,
		"unknown background": `{"content":{"thread_id":"abc","thread_title":"T"},"background":"nope","length":4,"logo_path":"l","animation_path":"a"}`,
	} {
		t.Run(name, func(t *testing.T) {
			if w := do(r, http.MethodPost, "/api/render", body); w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
	if len(svc.got) != 0 {
		t.Fatalf("service should not be called")
	}
}

func TestUnknownJob(t *testing.T) {
	r, _ := newTestRouter(t, &fakeService{})
	if w := do(r, http.MethodGet, "/api/render/nope", ""); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestVideosAndHealth(t *testing.T) {
	svc := &fakeService{}
	r, _ := newTestRouter(t, svc)
	if err := svc.store.Save(context.Background(), datalog.Record{ID: "abc", Filename: "a.mp4", Time: "1"}); err != nil {
		t.Fatal(err)
	}

	w := do(r, http.MethodGet, "/api/videos", "")
	var body struct {
		Count  int              `json:"count"`
		Videos []datalog.Record `json:"videos"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Videos[0].Filename != "a.mp4" {
		t.Fatalf("unexpected videos: %+v", body)
	}

	if w := do(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/backgrounds", ""); w.Code != http.StatusOK {
		t.Fatalf("backgrounds status = %d", w.Code)
	}
}
