package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/graph/export"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/service"
)

// writeError maps pipeline errors onto status codes.
func writeError(c *gin.Context, operation string, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, domain.ErrUnknownStage),
		errors.Is(err, domain.ErrTooFewStages):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrSnapshotNotFound):
		status, msg = http.StatusNotFound, "snapshot not found"
	case errors.Is(err, domain.ErrNoSource):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrStoreDisabled), errors.Is(err, domain.ErrDatasetNotLoaded):
		status, msg = http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, domain.ErrLoad):
		status, msg = http.StatusBadGateway, err.Error()
	}
	if status >= http.StatusInternalServerError {
		service.NewLogger(c.Request.Context()).LogError(operation, err)
	}
	c.JSON(status, gin.H{"error": msg})
}

// parseField returns "" for an empty query value.
func parseField(raw string) (domain.Field, error) {
	if raw == "" {
		return "", nil
	}
	return domain.ParseField(raw)
}

func (h *Handler) ListFields(c *gin.Context) {
	out := make([]FieldDTO, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		out = append(out, FieldDTO{Name: f, Label: f.Label(), Flag: f.IsFlag()})
	}
	c.JSON(http.StatusOK, gin.H{"fields": out})
}

// GetFrequencies serves ?field=cgpa[&by=gender]. A missing or empty field
// means gender.
func (h *Handler) GetFrequencies(c *gin.Context) {
	field, err := parseField(c.Query("field"))
	if err != nil {
		writeError(c, "frequencies", err)
		return
	}
	if field == "" {
		field = domain.FieldGender
	}
	by, err := parseField(c.Query("by"))
	if err != nil {
		writeError(c, "frequencies", err)
		return
	}
	view, err := h.svc.Frequencies(c.Request.Context(), field, by)
	if err != nil {
		writeError(c, "frequencies", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GetCombinations(c *gin.Context) {
	ctx := c.Request.Context()
	if key, ok := c.GetQuery("key"); ok {
		detail, err := h.svc.CombinationDetail(ctx, key)
		if err != nil {
			writeError(c, "combinations", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": key, "gender_breakdown": detail})
		return
	}
	combos, err := h.svc.Combinations(ctx)
	if err != nil {
		writeError(c, "combinations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"combinations": combos})
}

func (h *Handler) GetFlow(c *gin.Context) {
	g, err := h.svc.Flow(c.Request.Context(), c.Query("stages"))
	if err != nil {
		writeError(c, "flow", err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) GetConditionFlow(c *gin.Context) {
	g, err := h.svc.ConditionFlow(c.Request.Context())
	if err != nil {
		writeError(c, "flow_conditions", err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetFlowDOT renders the flow graph for Graphviz.
func (h *Handler) GetFlowDOT(c *gin.Context) {
	g, err := h.svc.Flow(c.Request.Context(), c.Query("stages"))
	if err != nil {
		writeError(c, "flow_dot", err)
		return
	}
	c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(export.ToDOT(g, h.title)))
}

func (h *Handler) GetMatrix(c *gin.Context) {
	m, err := h.svc.Matrix(c.Request.Context())
	if err != nil {
		writeError(c, "matrix", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) GetHierarchy(c *gin.Context) {
	tree, err := h.svc.Hierarchy(c.Request.Context(), c.Query("view"))
	if err != nil {
		writeError(c, "hierarchy", err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (h *Handler) Reload(c *gin.Context) {
	if err := h.svc.Reload(c.Request.Context()); err != nil {
		writeError(c, "reload", err)
		return
	}
	ds := h.svc.Dataset()
	c.JSON(http.StatusOK, ReloadResponse{Records: ds.Len(), Version: ds.Version()})
}

func (h *Handler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, service.GetMetrics())
}

func (h *Handler) CreateSnapshot(c *gin.Context) {
	var body SnapshotRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	field, err := parseField(body.Field)
	if err != nil {
		writeError(c, "snapshot_create", err)
		return
	}
	by, err := parseField(body.By)
	if err != nil {
		writeError(c, "snapshot_create", err)
		return
	}
	snap, err := h.svc.CreateSnapshot(c.Request.Context(), service.Selection{
		Field: field, By: by, Stages: body.Stages, View: body.View,
	})
	if err != nil {
		writeError(c, "snapshot_create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"snapshot": snap})
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	snap, err := h.svc.GetSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "snapshot_get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snap})
}

func (h *Handler) ListSnapshots(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, err := h.svc.ListSnapshots(c.Request.Context(), limit)
	if err != nil {
		writeError(c, "snapshot_list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": list})
}
