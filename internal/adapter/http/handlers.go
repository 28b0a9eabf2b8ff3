package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/firewatch/burn-data-service/internal/domain"
	"github.com/firewatch/burn-data-service/internal/pipeline"
)

const (
	queryTimeout  = 15 * time.Second
	ingestTimeout = 5 * time.Minute
)

func (s *Server) handleListFires(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	fires, err := s.store.FindAllFires(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, fires)
}

func (s *Server) handleListEscapes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	escapes, err := s.store.FindAllEscapes(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, escapes)
}

// handleLoadFiresFile ingests a multipart CSV upload synchronously. An empty
// upload answers 404, matching the reference behavior.
func (s *Server) handleLoadFiresFile(c *gin.Context) {
	s.loadFromFile(c, "fires", s.ingestor.SaveFires)
}

func (s *Server) handleLoadEscapesFile(c *gin.Context) {
	s.loadFromFile(c, "escapes", s.ingestor.SaveEscapes)
}

func (s *Server) loadFromFile(c *gin.Context, dataset string, save func(context.Context, []domain.RawRecord) (pipeline.Result, error)) {
	s.logger.Info("received new dataset", "dataset", dataset)

	records, err := s.readUpload(c)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			s.logger.Info("file received empty", "dataset", dataset)
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ingestTimeout)
	defer cancel()

	result, err := save(ctx, records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info("dataset saved", "dataset", dataset, "persisted", result.Persisted, "skipped", result.Skipped)
	c.JSON(http.StatusOK, result)
}

func (s *Server) readUpload(c *gin.Context) ([]domain.RawRecord, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, domain.ErrEmptyInput
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if header.Size == 0 {
		return nil, domain.ErrEmptyInput
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	return pipeline.ReadRecords(file)
}

// handleLoadFiresBody schedules ingestion of a raw CSV request body and
// answers success immediately, before the batch runs. The job id is the
// tracking handle for the eventual outcome.
func (s *Server) handleLoadFiresBody(c *gin.Context) {
	s.loadFromBody(c, "fires", s.ingestor.SaveFires)
}

func (s *Server) handleLoadEscapesBody(c *gin.Context) {
	s.loadFromBody(c, "escapes", s.ingestor.SaveEscapes)
}

func (s *Server) loadFromBody(c *gin.Context, dataset string, save func(context.Context, []domain.RawRecord) (pipeline.Result, error)) {
	s.logger.Info("received new dataset as csv body", "dataset", dataset)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job := s.runner.Submit(dataset, func(ctx context.Context) (pipeline.Result, error) {
		records, err := pipeline.ReadRecords(bytes.NewReader(body))
		if err != nil {
			return pipeline.Result{}, err
		}
		return save(ctx, records)
	})

	c.JSON(http.StatusOK, gin.H{"jobId": job.ID})
}

func (s *Server) handleQueryFires(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	fires, err := s.store.FindFires(ctx, criteria)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"_embedded": gin.H{"fires": fires}})
}

func (s *Server) handleQueryEscapes(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	escapes, err := s.store.FindEscapes(ctx, criteria)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"_embedded": gin.H{"escapes": escapes}})
}

func (s *Server) handleStatistics(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	fires, err := s.store.FindFires(ctx, criteria)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.ComputeStatistics(fires))
}

func (s *Server) handleListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": s.runner.Jobs()})
}

func (s *Server) handleGetJob(c *gin.Context) {
	job, ok := s.runner.Job(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// parseCriteria collects the independently optional filter parameters.
// Absent parameters stay nil and impose no constraint. minSeverity,
// maxSeverity, startMonth, and endMonth are accepted here but the fire
// predicate ignores them; see domain.FilterCriteria.
func parseCriteria(c *gin.Context) (domain.FilterCriteria, error) {
	criteria := domain.FilterCriteria{
		Source:        optString(c, "source"),
		County:        optString(c, "county"),
		Counties:      optString(c, "counties"),
		CountyUnitID:  optString(c, "countyUnitID"),
		BurnType:      optString(c, "burnType"),
		TreatmentType: optString(c, "treatmentType"),
		Owner:         optString(c, "owner"),
	}

	var err error
	if criteria.MinAcres, err = optFloat(c, "minAcres"); err != nil {
		return domain.FilterCriteria{}, err
	}
	if criteria.MaxAcres, err = optFloat(c, "maxAcres"); err != nil {
		return domain.FilterCriteria{}, err
	}
	if criteria.StartYear, err = optInt(c, "startYear"); err != nil {
		return domain.FilterCriteria{}, err
	}
	if criteria.EndYear, err = optInt(c, "endYear"); err != nil {
		return domain.FilterCriteria{}, err
	}
	if criteria.StartMonth, err = optInt(c, "startMonth"); err != nil {
		return domain.FilterCriteria{}, err
	}
	if criteria.EndMonth, err = optInt(c, "endMonth"); err != nil {
		return domain.FilterCriteria{}, err
	}
	if criteria.MinSeverity, err = optFloat(c, "minSeverity"); err != nil {
		return domain.FilterCriteria{}, err
	}
	if criteria.MaxSeverity, err = optFloat(c, "maxSeverity"); err != nil {
		return domain.FilterCriteria{}, err
	}

	return criteria, nil
}

func optString(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

func optFloat(c *gin.Context, name string) (*float64, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, v)
	}
	return &parsed, nil
}

func optInt(c *gin.Context, name string) (*int, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, v)
	}
	return &parsed, nil
}
