package http

import (
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/service"
)

// Handler serves builder outputs for the dashboard.
type Handler struct {
	svc   *service.SurveyService
	title string
}

func New(svc *service.SurveyService, title string) *Handler {
	if title == "" {
		title = "Student Mental Health"
	}
	return &Handler{svc: svc, title: title}
}

type FieldDTO struct {
	Name  domain.Field `json:"name"`
	Label string       `json:"label"`
	Flag  bool         `json:"flag"`
}

type SnapshotRequest struct {
	Field  string   `json:"field,omitempty"`
	By     string   `json:"by,omitempty"`
	Stages []string `json:"stages,omitempty"`
	View   string   `json:"view,omitempty"`
}

type ReloadResponse struct {
	Records int    `json:"records"`
	Version string `json:"version"`
}
