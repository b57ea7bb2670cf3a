package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/patternlog/internal/apierror"
	"github.com/JonnyWalker81/patternlog/internal/logger"
	"github.com/JonnyWalker81/patternlog/internal/models"
	"github.com/JonnyWalker81/patternlog/internal/service"
)

const maxPageLimit = 100

// InsightEngine is the read side served by InsightsHandler
type InsightEngine interface {
	ShortWindow() models.Window
	LongWindow() models.Window
	CustomWindow(start, end time.Time) models.Window
	GetReport(ctx context.Context, w models.Window) (*models.Report, error)
	AnalyzeTrend(ctx context.Context, metric models.TrendMetric, w models.Window) (models.TrendDescriptor, error)
	GetPage(ctx context.Context, offset, limit int) ([]models.Entry, bool, error)
	Subscribe() (<-chan models.Notification, func())
}

// InsightsHandler serves reports, trends, the journal and change notifications
type InsightsHandler struct {
	engine   InsightEngine
	pageSize int
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(engine InsightEngine, pageSize int) *InsightsHandler {
	return &InsightsHandler{
		engine:   engine,
		pageSize: pageSize,
	}
}

// GetShortReport handles GET /api/v1/reports/short
func (h *InsightsHandler) GetShortReport(c *gin.Context) {
	h.serveReport(c, "report.short", h.engine.ShortWindow())
}

// GetLongReport handles GET /api/v1/reports/long
func (h *InsightsHandler) GetLongReport(c *gin.Context) {
	h.serveReport(c, "report.long", h.engine.LongWindow())
}

// GetCustomReport handles GET /api/v1/reports?start=&end=
func (h *InsightsHandler) GetCustomReport(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	if c.Query("start") == "" || c.Query("end") == "" {
		badRequest(c, "start and end are required", "Choose a start and end date")
		return
	}
	h.serveReport(c, "report.custom", h.engine.CustomWindow(start, end))
}

func (h *InsightsHandler) serveReport(c *gin.Context, op string, w models.Window) {
	if w.End.Before(w.Start) {
		apierror.WriteProblem(c, apierror.NewInvalidWindowError(apierror.GetRequestID(c), w.Start, w.End))
		return
	}

	ctx := logger.WithOperation(c.Request.Context(), op)
	report, err := h.engine.GetReport(ctx, w)
	if err != nil {
		writeError(c, err, op, "Report", "")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetTrend handles GET /api/v1/trends?metric=&days= (or start/end)
func (h *InsightsHandler) GetTrend(c *gin.Context) {
	metric := models.TrendMetric(c.DefaultQuery("metric", string(models.MetricDayScore)))
	if !validMetric(metric) {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{
			{Field: "metric", Message: "must be a known trend metric", Code: "invalid_value"},
		}))
		return
	}

	w := h.engine.LongWindow()
	if c.Query("start") != "" || c.Query("end") != "" {
		start, end, ok := parseRange(c)
		if !ok {
			return
		}
		w = h.engine.CustomWindow(start, end)
	} else if days := c.Query("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 1 || n > 366 {
			badRequest(c, "days must be an integer between 1 and 366", "Invalid number of days")
			return
		}
		// n calendar days ending today, like the trailing report windows
		loc := w.Loc()
		first := w.End.In(loc).AddDate(0, 0, -(n - 1))
		start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)
		w = h.engine.CustomWindow(start, w.End)
	}

	trend, err := h.engine.AnalyzeTrend(logger.WithOperation(c.Request.Context(), "trend"), metric, w)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWindow) {
			apierror.WriteProblem(c, apierror.NewInvalidWindowError(apierror.GetRequestID(c), w.Start, w.End))
			return
		}
		writeError(c, err, "trend", "Trend", string(metric))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"window": w,
		"trend":  trend,
	})
}

// GetEntries handles GET /api/v1/entries?offset=&limit=
func (h *InsightsHandler) GetEntries(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		badRequest(c, "offset must be a non-negative integer", "Invalid page offset")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.pageSize)))
	if err != nil || limit < 1 {
		badRequest(c, "limit must be a positive integer", "Invalid page size")
		return
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	entries, hasMore, err := h.engine.GetPage(logger.WithOperation(c.Request.Context(), "entries.page"), offset, limit)
	if err != nil {
		writeError(c, err, "entries.page", "Entries", "")
		return
	}
	c.JSON(http.StatusOK, models.EntryPage{
		Entries: entries,
		Offset:  offset,
		Limit:   limit,
		HasMore: hasMore,
	})
}

// Notifications handles GET /api/v1/notifications as a server-sent event stream
func (h *InsightsHandler) Notifications(c *gin.Context) {
	ch, cancel := h.engine.Subscribe()
	defer cancel()

	log := logger.Ctx(c.Request.Context())
	log.Debug("notification stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Render(-1, sse.Event{Event: "ready", Data: gin.H{"timestamp": time.Now().UTC()}})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case n, ok := <-ch:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{Event: string(n.Kind), Data: n})
			return true
		}
	})
	log.Debug("notification stream closed")
}

// parseRange reads RFC 3339 start and end query parameters. Missing values
// are zero; malformed ones are answered with 400 and ok=false.
func parseRange(c *gin.Context) (start, end time.Time, ok bool) {
	var fieldErrors []apierror.FieldError
	parse := func(name string) time.Time {
		raw := c.Query(name)
		if raw == "" {
			return time.Time{}
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field:   name,
				Message: "must be a valid RFC3339 timestamp",
				Code:    "invalid_format",
			})
		}
		return t
	}
	start, end = parse("start"), parse("end")
	if len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrors))
		return start, end, false
	}
	return start, end, true
}

func validMetric(m models.TrendMetric) bool {
	switch m {
	case models.MetricEnergyLevel, models.MetricIntensity, models.MetricDailyCount, models.MetricDayScore,
		models.MetricMood, models.MetricEnergy, models.MetricEffectiveness:
		return true
	}
	return false
}
