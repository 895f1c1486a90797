package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foxseedlab/lucidia/internal/analysis"
	"github.com/foxseedlab/lucidia/internal/auth"
	"github.com/foxseedlab/lucidia/internal/scores"
	"github.com/gin-gonic/gin"
)

const maxSubmissionsLimit = 100

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleProcess is the analysis endpoint. Analyzer failures are reported as
// {"error": ...} with status 200; only malformed requests get a 4xx.
func (s *Server) handleProcess(c *gin.Context) {
	var req analysis.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, analysis.ErrorResponse("invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		c.JSON(http.StatusBadRequest, analysis.ErrorResponse(analysis.ErrEmptyTranscript.Error()))
		return
	}
	c.JSON(http.StatusOK, s.analysis.Process(c.Request.Context(), req.Transcript))
}

type seriesJSON struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Color      string `json:"color"`
	Background string `json:"background"`
	Min        int    `json:"min"`
	Max        int    `json:"max"`
	Data       []int  `json:"data"`
}

type todayJSON struct {
	Label       string `json:"label"`
	Speech      int    `json:"speech"`
	Recognition int    `json:"recognition"`
	Memory      int    `json:"memory"`
}

type dashboardJSON struct {
	Days      []string     `json:"days"`
	Series    []seriesJSON `json:"series"`
	Today     todayJSON    `json:"today"`
	StreakDay int          `json:"streak_day"`
}

func toDashboardJSON(d scores.Dashboard) dashboardJSON {
	series := make([]seriesJSON, 0, len(d.Series))
	for _, sr := range d.Series {
		series = append(series, seriesJSON{
			Key:        sr.Category.Key,
			Label:      sr.Category.Label,
			Color:      sr.Category.Color,
			Background: sr.Category.Background,
			Min:        sr.Category.Min,
			Max:        sr.Category.Max - 1,
			Data:       sr.Values,
		})
	}
	return dashboardJSON{
		Days:   d.Days,
		Series: series,
		Today: todayJSON{
			Label:       d.Today.Label,
			Speech:      d.Today.Speech,
			Recognition: d.Today.Recognition,
			Memory:      d.Today.Memory,
		},
		StreakDay: d.StreakDay,
	}
}

func (s *Server) handleDashboard(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, toDashboardJSON(s.scores.Generate()))
}

func (s *Server) handleLogin(c *gin.Context) {
	var in auth.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.MessageMissingFields})
		return
	}
	if err := auth.ValidateLogin(in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": auth.DashboardPath})
}

func (s *Server) handleSignup(c *gin.Context) {
	var in auth.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.MessageMissingFields})
		return
	}
	if err := auth.ValidateSignup(in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": auth.MessageSignupSuccess, "mode": auth.ModeLogin.String()})
}

type submissionJSON struct {
	ID          string    `json:"id"`
	Transcript  string    `json:"transcript"`
	Result      string    `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	Status      string    `json:"status"`
	Analyzer    string    `json:"analyzer"`
	DurationMS  int64     `json:"duration_ms"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (s *Server) handleSubmissions(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxSubmissionsLimit)
	}
	list, err := s.analysis.RecentSubmissions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load submissions"})
		return
	}
	out := make([]submissionJSON, 0, len(list))
	for _, sub := range list {
		out = append(out, submissionJSON{
			ID:          sub.ID,
			Transcript:  sub.Transcript,
			Result:      sub.Result,
			Error:       sub.Error,
			Status:      string(sub.Status),
			Analyzer:    sub.Analyzer,
			DurationMS:  sub.DurationMS,
			SubmittedAt: sub.SubmittedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"submissions": out})
}
