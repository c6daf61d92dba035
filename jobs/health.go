package jobs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/informreaders/portal/internal/jobs"
	"github.com/informreaders/portal/internal/platform/httpx"
)

// QueueInspector reports queue state. *asynq.Inspector satisfies it.
type QueueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// QueueHealth is the body of GET /jobs/health.
type QueueHealth struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
	Paused    bool   `json:"paused"`
}

// QueueStatus summarises the default queue.
func QueueStatus(inspector QueueInspector) (QueueHealth, error) {
	info, err := inspector.GetQueueInfo(QueueDefault)
	if err != nil || info == nil {
		return QueueHealth{Queue: QueueDefault}, err
	}
	return QueueHealth{
		Queue:     info.Queue,
		Pending:   info.Pending,
		Active:    info.Active,
		Scheduled: info.Scheduled,
		Retry:     info.Retry,
		Archived:  info.Archived,
		Paused:    info.Paused,
	}, nil
}

// Handler serves queue health. Without an inspector it reports an empty
// default queue, which is what test mode wires.
type Handler struct {
	inspector QueueInspector
	metrics   *jobmetrics.Metrics
	logger    *slog.Logger
}

// NewHandler constructs the /jobs handler.
func NewHandler(inspector QueueInspector, metrics *jobmetrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{inspector: inspector, metrics: metrics, logger: logger(log)}
}

// MountRoutes attaches job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/health", h.health)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.inspector == nil {
		httpx.JSON(w, http.StatusOK, QueueHealth{Queue: QueueDefault})
		return
	}
	status, err := QueueStatus(h.inspector)
	if err != nil {
		h.logger.Warn("queue health", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "")
		return
	}
	h.metrics.SetQueueDepth(status.Queue, status.Pending)
	httpx.JSON(w, http.StatusOK, status)
}
