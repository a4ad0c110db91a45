package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"f0oster/regwatch/document"
	"f0oster/regwatch/monitor"
	"f0oster/regwatch/versioning"
)

const (
	defaultChangeLimit = 50
	maxChangeLimit     = 500
)

type ChangeListResponse struct {
	Changes []versioning.ChangeRecord `json:"changes"`
	Count   int                       `json:"count"`
}

type DocumentListResponse struct {
	Documents []document.Version `json:"documents"`
	Count     int                `json:"count"`
}

type SyncResponse struct {
	Sources       int      `json:"sources"`
	FailedSources []string `json:"failedSources"`
	NewRecords    int      `json:"newRecords"`
	Notified      bool     `json:"notified"`
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// parseDate accepts YYYY-MM-DD or RFC3339. A date-only end bound covers the whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// Handlers

func (s *Server) handleListChanges(c *gin.Context) {
	limit := defaultChangeLimit
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			writeError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}
	if limit == 0 || limit > maxChangeLimit {
		limit = maxChangeLimit
	}

	changes := s.reporter.GetChangeHistory(limit)
	c.JSON(http.StatusOK, ChangeListResponse{Changes: changes, Count: len(changes)})
}

func (s *Server) handleListDocuments(c *gin.Context) {
	start, err := parseDate(c.Query("start"), false)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid start date")
		return
	}
	end, err := parseDate(c.Query("end"), true)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid end date")
		return
	}

	docs, err := s.reporter.GetHistoricalData(c.Request.Context(), document.Filter{
		SourceID: c.Query("source"),
		Start:    start,
		End:      end,
	})
	if err != nil {
		s.log.Error("failed to list documents", "error", err)
		writeError(c, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	c.JSON(http.StatusOK, DocumentListResponse{Documents: docs, Count: len(docs)})
}

func (s *Server) handleReport(c *gin.Context) {
	c.JSON(http.StatusOK, s.reporter.GenerateReport(c.Request.Context(), c.Query("source")))
}

func (s *Server) handleSync(c *gin.Context) {
	result, err := s.trigger.RunOnce(c.Request.Context())
	switch {
	case errors.Is(err, monitor.ErrCycleInProgress):
		writeError(c, http.StatusConflict, "Sync already in progress")
		return
	case err != nil:
		s.log.Error("on-demand sync failed", "error", err)
		writeError(c, http.StatusBadGateway, "Sync failed")
		return
	}

	failed := result.FailedSources
	if failed == nil {
		failed = []string{}
	}
	c.JSON(http.StatusOK, SyncResponse{
		Sources:       len(result.Sources),
		FailedSources: failed,
		NewRecords:    len(result.Appended),
		Notified:      result.Notified,
	})
}
