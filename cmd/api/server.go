package main

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"modelbias/internal/analysis"
	"modelbias/internal/data"
	"modelbias/internal/models"
)

// server answers read-only queries over one scored madlibs table.
type server struct {
	table       *data.Table
	family      []models.Scorer
	names       []string
	labelColumn string
	minAUC      float64
	bins        int
	apiKey      string
	log         *zap.Logger
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/")
	api.Use(s.apiKeyMiddleware)
	api.GET("/models", s.handleModels)
	api.GET("/families/auc", s.handleFamilyAUC)
	api.GET("/families/auc/histogram.png", s.handleHistogram)
	api.GET("/scores", s.handleScores)
	api.POST("/predict", s.handlePredict)
	return r
}

func (s *server) apiKeyMiddleware(c *gin.Context) {
	if s.apiKey == "" {
		c.Next()
		return
	}
	if c.GetHeader("X-API-Key") != s.apiKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (s *server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": s.names, "rows": s.table.Len()})
}

func (s *server) familyAUC(c *gin.Context) (analysis.FamilyAUC, bool) {
	if len(s.names) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no models in the scored table"})
		return analysis.FamilyAUC{}, false
	}
	res, err := analysis.ModelFamilyAUC(s.table, s.names, s.labelColumn)
	if err != nil {
		s.log.Error("family auc", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, analysis.ErrSingleClass) || errors.Is(err, data.ErrInvalidValue) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return analysis.FamilyAUC{}, false
	}
	return res, true
}

func (s *server) handleFamilyAUC(c *gin.Context) {
	res, ok := s.familyAUC(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

type histogramQuery struct {
	MinAUC *float64 `form:"min_auc" binding:"omitempty,gte=0,lt=1"`
}

func (s *server) handleHistogram(c *gin.Context) {
	var q histogramQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	minAUC := s.minAUC
	if q.MinAUC != nil {
		minAUC = *q.MinAUC
	}
	res, ok := s.familyAUC(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := (analysis.PNGWriter{W: &buf, Bins: s.bins}).Histogram(res.AUCs, minAUC, 1.0); err != nil {
		s.log.Error("render histogram", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

type scoresQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

func (s *server) handleScores(c *gin.Context) {
	q := scoresQuery{Limit: 100}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	head := s.table.Head(q.Limit)
	cols := head.Columns()
	items := make([]gin.H, 0, head.Len())
	for _, rec := range head.Records() {
		it := gin.H{}
		for j, col := range cols {
			it[col] = rec[j]
		}
		items = append(items, it)
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": s.table.Len()})
}

type predictReq struct {
	Text string `json:"text" binding:"required"`
}

func (s *server) handlePredict(c *gin.Context) {
	var req predictReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(s.family) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no models loaded"})
		return
	}
	scores := make(gin.H, len(s.family))
	for _, m := range s.family {
		ps, err := m.Predict(c.Request.Context(), []string{req.Text})
		if err != nil {
			s.log.Error("predict", zap.String("model", m.Name()), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "model " + m.Name() + " failed"})
			return
		}
		if len(ps) != 1 {
			c.JSON(http.StatusBadGateway, gin.H{"error": "model " + m.Name() + " returned no score"})
			return
		}
		scores[m.Name()] = ps[0]
	}
	c.JSON(http.StatusOK, gin.H{"text": req.Text, "scores": scores})
}
