package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"shortsmith/config"
	"shortsmith/datalog"
	"shortsmith/pipeline"
	"shortsmith/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RenderService is the part of pipeline.Processor the API needs.
type RenderService interface {
	Process(ctx context.Context, req types.RenderRequest) (*types.RenderResult, error)
	Store() datalog.Store
}

// Job states
const (
	JobQueued  = "queued"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
	JobSkipped = "skipped"
)

// JobStatus is the tracked state of an accepted render request.
type JobStatus struct {
	ID        string              `json:"job_id"`
	ContentID string              `json:"content_id"`
	Status    string              `json:"status"`
	Result    *types.RenderResult `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// RenderController accepts render requests and runs them in the background.
type RenderController struct {
	svc RenderService

	mu   sync.RWMutex
	jobs map[string]*JobStatus
	wg   sync.WaitGroup
}

// NewRenderController creates a controller backed by svc.
func NewRenderController(svc RenderService) *RenderController {
	return &RenderController{svc: svc, jobs: map[string]*JobStatus{}}
}

// RegisterRenderRoutes registers render and video log endpoints.
func RegisterRenderRoutes(r *gin.Engine, rc *RenderController) {
	g := r.Group("/api")
	g.POST("/render", rc.handleRender)
	g.GET("/render/:id", rc.handleJob)
	g.GET("/videos", rc.handleVideos)
}

// handleRender validates the request and queues it. Responds 202 with the job id.
func (rc *RenderController) handleRender(c *gin.Context) {
	var req types.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := config.LookupBackground(req.Background); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	job := &JobStatus{
		ID:        uuid.NewString(),
		ContentID: req.Content.ThreadID,
		Status:    JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rc.mu.Lock()
	rc.jobs[job.ID] = job
	rc.mu.Unlock()

	config.Log.WithFields(logrus.Fields{"job": job.ID, "id": job.ContentID}).Info("Render request accepted")

	rc.wg.Add(1)
	go rc.run(job.ID, req)

	c.JSON(http.StatusAccepted, rc.snapshot(job.ID))
}

func (rc *RenderController) run(jobID string, req types.RenderRequest) {
	defer rc.wg.Done()
	rc.update(jobID, func(j *JobStatus) { j.Status = JobRunning })

	// Detached from the HTTP request so the job outlives the response.
	result, err := rc.svc.Process(context.Background(), req)

	rc.update(jobID, func(j *JobStatus) {
		switch {
		case pipeline.IsSkip(err):
			j.Status = JobSkipped
			j.Error = err.Error()
		case err != nil:
			j.Status = JobFailed
			j.Error = err.Error()
		default:
			j.Status = JobDone
			j.Result = result
		}
	})
	if err != nil {
		config.Log.WithField("job", jobID).Errorf("Render failed: %v", err)
	}
}

func (rc *RenderController) update(jobID string, fn func(*JobStatus)) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if j, ok := rc.jobs[jobID]; ok {
		fn(j)
		j.UpdatedAt = time.Now()
	}
}

func (rc *RenderController) snapshot(jobID string) *JobStatus {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	j, ok := rc.jobs[jobID]
	if !ok {
		return nil
	}
	cp := *j
	return &cp
}

// Wait blocks until all background jobs have finished.
func (rc *RenderController) Wait() { rc.wg.Wait() }

func (rc *RenderController) handleJob(c *gin.Context) {
	job := rc.snapshot(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// handleVideos returns the video log, oldest first.
func (rc *RenderController) handleVideos(c *gin.Context) {
	records, err := rc.svc.Store().List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list videos: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "videos": records})
}
