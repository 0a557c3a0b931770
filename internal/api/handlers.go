package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/disease-support-server/internal/domain"
	"github.com/disease-support-server/internal/middleware"
	"github.com/disease-support-server/internal/service"
	"github.com/disease-support-server/pkg/alignment"
)

// MaxAlignLength bounds each sequence accepted by the align endpoint.
const MaxAlignLength = 2000

// handleRoot serves a plain-text banner
func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "Disease Diagnosis API is running!")
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	registry := s.service.Registry()
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"timestamp":    time.Now().UTC(),
		"version":      Version,
		"uptime":       time.Since(s.startedAt).String(),
		"diseases":     len(registry.Base()),
		"coinfections": len(registry.Coinfections()),
		"catalogue":    registry.Fingerprint(),
	})
}

// handleDiagnose serves the ranked [disease, confidence] pairs.
func (s *Server) handleDiagnose(c *gin.Context) {
	symptoms, ok := s.decodeSymptoms(c)
	if !ok {
		return
	}

	results, err := s.service.Diagnose(c.Request.Context(), symptoms)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if results == nil {
		results = domain.Diagnosis{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": results,
	})
}

// handleReport serves the annotated form of a diagnosis.
func (s *Server) handleReport(c *gin.Context) {
	symptoms, ok := s.decodeSymptoms(c)
	if !ok {
		return
	}

	report, err := s.service.Report(c.Request.Context(), symptoms)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"report": report,
	})
}

type alignRequest struct {
	Seq1      []string           `json:"seq1"`
	Seq2      []string           `json:"seq2"`
	Scoring   *alignment.Scoring `json:"scoring,omitempty"`
	Traceback bool               `json:"traceback,omitempty"`
}

// handleAlign scores two symbol sequences. It is independent of diagnosis.
func (s *Server) handleAlign(c *gin.Context) {
	var req alignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "request body must be {\"seq1\": [...], \"seq2\": [...]}")
		return
	}
	if len(req.Seq1) > MaxAlignLength || len(req.Seq2) > MaxAlignLength {
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, fmt.Sprintf("sequences are limited to %d symbols each", MaxAlignLength))
		return
	}

	scoring := alignment.DefaultScoring()
	if req.Scoring != nil {
		scoring = *req.Scoring
	}
	if err := scoring.Validate(); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, err.Error())
		return
	}
	aligner := alignment.NewAligner[string](scoring)

	if !req.Traceback {
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"score":  aligner.Score(req.Seq1, req.Seq2),
		})
		return
	}

	result := aligner.Align(req.Seq1, req.Seq2)
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"score":     result.Score,
		"matches":   result.Matches(),
		"alignment": result.Pairs,
	})
}

type symptomView struct {
	Name  string             `json:"name"`
	Code  domain.SymptomCode `json:"code"`
	Label string             `json:"label"`
}

type symptomGroup struct {
	Category string        `json:"category"`
	Symptoms []symptomView `json:"symptoms"`
}

// handleSymptoms lists the vocabulary grouped by category in declaration order.
func (s *Server) handleSymptoms(c *gin.Context) {
	normalizer := s.service.Normalizer()

	groups := make([]symptomGroup, 0)
	index := make(map[string]int)
	for _, e := range normalizer.Vocabulary() {
		i, ok := index[e.Category]
		if !ok {
			i = len(groups)
			index[e.Category] = i
			groups = append(groups, symptomGroup{Category: e.Category})
		}
		groups[i].Symptoms = append(groups[i].Symptoms, symptomView{Name: e.Name, Code: e.Code, Label: e.Label})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"categories": groups,
		"collisions": normalizer.Collisions(),
	})
}

// handleDiseases lists base diseases, then co-infections in pair order.
func (s *Server) handleDiseases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"diseases": s.service.Registry().DescribeAll(),
	})
}

// handleDisease returns one profile by identifier.
func (s *Server) handleDisease(c *gin.Context) {
	id := domain.DiseaseID(c.Param("id"))

	summary, ok := s.service.Registry().Describe(id)
	if !ok {
		middleware.AbortWithError(c, http.StatusNotFound, domain.ErrNotFoundCode, "unknown disease: "+string(id))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"disease": summary,
	})
}

// decodeSymptoms reads the request body and extracts the symptom list,
// writing the error response itself when it fails.
func (s *Server) decodeSymptoms(c *gin.Context) ([]string, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.AbortWithError(c, http.StatusRequestEntityTooLarge, domain.ErrInvalidInput, "request body too large")
			return nil, false
		}
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "failed to read request body")
		return nil, false
	}

	symptoms, err := service.DecodeSymptomRequest(body)
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	return symptoms, true
}

// writeError maps core errors onto HTTP statuses: malformed input is the
// caller's fault, everything else is a server error.
func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var inputErr *domain.InvalidInputError
	var profileErr *domain.InvalidProfileError
	switch {
	case errors.As(err, &inputErr):
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, err.Error())
	case errors.As(err, &profileErr):
		middleware.AbortWithError(c, http.StatusInternalServerError, domain.ErrInvalidProfile, err.Error())
	default:
		middleware.AbortWithError(c, http.StatusInternalServerError, domain.ErrInternalServer, err.Error())
	}
}
