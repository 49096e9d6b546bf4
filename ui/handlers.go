package ui

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"movilidad/app"
	domainQuestionnaire "movilidad/domain/questionnaire"
	"movilidad/domain/target"
	"movilidad/internal/api"
	"movilidad/internal/classify"
	apperrors "movilidad/internal/errors"
)

const (
	answerPrefix  = "q_"
	featurePrefix = "f_"
)

type matchPage struct {
	Targets     []target.Target
	Target      string
	TargetLabel string
	Questions   []domainQuestionnaire.Question
	Selected    map[string]string
	Result      *app.RunResult
	Explanation string
	Error       string
}

type classPage struct {
	Checklist  []classify.Feature
	Checked    map[string]bool
	Prediction *classify.Prediction
	Error      string
}

func (s *Server) handleIndex(c *gin.Context) {
	page, status := s.loadMatchPage(c, c.Query("target"))
	s.renderTemplate(c, status, "index.html", page)
}

func (s *Server) handleRun(c *gin.Context) {
	page, status := s.loadMatchPage(c, c.PostForm("target"))
	if page.Error != "" {
		s.renderTemplate(c, status, "index.html", page)
		return
	}

	result, err := s.match.Run(c.Request.Context(), s.runRequest(c, page))
	if err != nil {
		page.Error = message(err)
		s.renderTemplate(c, statusOf(err), "index.html", page)
		return
	}
	page.Result = result
	s.renderTemplate(c, http.StatusOK, "index.html", page)
}

func (s *Server) handleExplain(c *gin.Context) {
	page, status := s.loadMatchPage(c, c.PostForm("target"))
	if page.Error != "" {
		s.renderTemplate(c, status, "index.html", page)
		return
	}

	result, err := s.match.Run(c.Request.Context(), s.runRequest(c, page))
	if err != nil {
		page.Error = message(err)
		s.renderTemplate(c, statusOf(err), "index.html", page)
		return
	}
	page.Result = result
	page.Explanation = s.match.Explain(c.Request.Context(), result, nil)
	s.renderTemplate(c, http.StatusOK, "index.html", page)
}

// loadMatchPage fills targets and the questionnaire of targetID, falling
// back to the first target
func (s *Server) loadMatchPage(c *gin.Context, targetID string) (*matchPage, int) {
	page := &matchPage{Selected: map[string]string{}}

	targets, err := s.match.Targets(c.Request.Context())
	if err != nil {
		page.Error = message(err)
		return page, statusOf(err)
	}
	page.Targets = targets
	if targetID == "" && len(targets) > 0 {
		targetID = targets[0].ID
	}
	page.Target = targetID
	page.TargetLabel = target.Label(targetID)

	questions, err := s.match.Questionnaire(c.Request.Context(), targetID)
	if err != nil {
		page.Error = message(err)
		return page, statusOf(err)
	}
	page.Questions = questions
	return page, http.StatusOK
}

func (s *Server) runRequest(c *gin.Context, page *matchPage) app.RunRequest {
	responses := make(map[string]string, len(page.Questions))
	for _, q := range page.Questions {
		if v, ok := c.GetPostForm(answerPrefix + q.Variable); ok {
			responses[q.Variable] = strings.TrimSpace(v)
			page.Selected[q.Variable] = strings.TrimSpace(v)
		}
	}
	return app.RunRequest{Target: page.Target, Responses: responses, K: s.config.Neighbors}
}

func (s *Server) handleClassForm(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "clase.html", &classPage{Checklist: classify.Checklist(), Checked: map[string]bool{}})
}

func (s *Server) handleClassPredict(c *gin.Context) {
	page := &classPage{Checklist: classify.Checklist(), Checked: map[string]bool{}}
	features := make(map[string]float64, len(page.Checklist))
	for _, f := range page.Checklist {
		if c.PostForm(featurePrefix+f.Variable) != "" {
			features[f.Variable] = 1
			page.Checked[f.Variable] = true
		} else {
			features[f.Variable] = 0
		}
	}

	if s.class == nil {
		page.Error = "Modelo no configurado."
		s.renderTemplate(c, http.StatusServiceUnavailable, "clase.html", page)
		return
	}
	pred, err := s.class.Predict(c.Request.Context(), features)
	if err != nil {
		page.Error = message(err)
		s.renderTemplate(c, statusOf(err), "clase.html", page)
		return
	}
	page.Prediction = pred
	s.renderTemplate(c, http.StatusOK, "clase.html", page)
}

func statusOf(err error) int {
	if !apperrors.IsAppError(err) {
		return http.StatusInternalServerError
	}
	return api.StatusFor(apperrors.GetCode(err))
}

// message shows model errors verbatim and everything else by code
func message(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.CodeModelUnavailable:
			return appErr.Message
		case apperrors.CodeUnknownTarget:
			return "Objetivo desconocido."
		case apperrors.CodeAssetUnavailable:
			return "Los datos precalculados no están disponibles."
		}
	}
	return "Ocurrió un error inesperado."
}
