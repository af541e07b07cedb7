package http

import "github.com/gin-gonic/gin"

// Register registers the survey routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/fields", h.ListFields)
	rg.GET("/frequencies", h.GetFrequencies)
	rg.GET("/combinations", h.GetCombinations)
	rg.GET("/flow", h.GetFlow)
	rg.GET("/flow/conditions", h.GetConditionFlow)
	rg.GET("/flow.dot", h.GetFlowDOT)
	rg.GET("/matrix", h.GetMatrix)
	rg.GET("/hierarchy", h.GetHierarchy)
	rg.POST("/reload", h.Reload)
	rg.GET("/metrics", h.GetMetrics)

	rg.POST("/snapshots", h.CreateSnapshot)
	rg.GET("/snapshots", h.ListSnapshots)
	rg.GET("/snapshots/:id", h.GetSnapshot)
}
