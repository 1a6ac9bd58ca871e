package service

import (
	"context"
	"errors"
	"fmt"

	"legalintake-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IntakeStore is the persistence contract the intake workflow depends on
type IntakeStore interface {
	Create(ctx context.Context, intake *models.IntakeRecord) error
	List(ctx context.Context) ([]*models.IntakeRecord, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// AnalysisRequest carries the intake facts sent to an analyzer
type AnalysisRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	MatterType   string `json:"matterType"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	IncidentDate string `json:"incidentDate"`
}

// Analyzer produces an AI assessment for an intake. The workflow depends
// on this capability but does not require it: a nil analyzer or a failed
// analysis degrades the submission, never fails it.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*models.AIAssessment, error)
}

// BuildDescription builds the case description sent to the analyzer by
// concatenating the summary and goals fields. The "Goals: " label is a
// compatibility contract with the analysis backend's prompts.
func BuildDescription(summary, goals string) string {
	if goals == "" {
		return summary
	}
	return summary + "\n\nGoals: " + goals
}

// IntakeService handles business logic for intake submissions
type IntakeService struct {
	store    IntakeStore
	analyzer Analyzer
	log      *zap.SugaredLogger
}

// IntakeServiceOption is a functional option for IntakeService
type IntakeServiceOption func(*IntakeService)

// WithIntakeStore sets the intake store
func WithIntakeStore(store IntakeStore) IntakeServiceOption {
	return func(s *IntakeService) {
		s.store = store
	}
}

// WithAnalyzer sets the analyzer
func WithAnalyzer(analyzer Analyzer) IntakeServiceOption {
	return func(s *IntakeService) {
		s.analyzer = analyzer
	}
}

// WithIntakeLogger sets the logger
func WithIntakeLogger(log *zap.SugaredLogger) IntakeServiceOption {
	return func(s *IntakeService) {
		s.log = log
	}
}

// NewIntakeService creates a new intake service
func NewIntakeService(opts ...IntakeServiceOption) *IntakeService {
	s := &IntakeService{log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitIntakeRequest represents a request to submit an intake
type SubmitIntakeRequest struct {
	Form                 models.IntakeForm
	ShareWithMarketplace bool
}

// SubmitIntakeResult represents the result of submitting an intake
type SubmitIntakeResult struct {
	Intake *models.IntakeRecord
}

// SubmitIntake runs the submission workflow: analyze (best-effort), then
// persist base fields plus whatever AI fields were obtained, then return
// the merged record. There is no rollback on partial failure.
func (s *IntakeService) SubmitIntake(ctx context.Context, req SubmitIntakeRequest) (*SubmitIntakeResult, error) {
	if s.store == nil {
		return nil, errors.New("intake store not set")
	}

	intake := &models.IntakeRecord{
		ShareWithMarketplace: req.ShareWithMarketplace,
		Form:                 req.Form,
	}

	if s.analyzer != nil {
		assessment, err := s.analyzer.Analyze(ctx, AnalysisRequest{
			Name:        req.Form.FullName,
			Email:       req.Form.Email,
			Phone:       req.Form.Phone,
			MatterType:  string(req.Form.MatterType),
			Description: BuildDescription(req.Form.Summary, req.Form.Goals),
			Location:    req.Form.Jurisdiction,
		})
		if err != nil {
			// Degrade gracefully: the intake is still created, with
			// all AI fields absent.
			s.log.Warnw("intake analysis unavailable", "matterType", req.Form.MatterType, "error", err)
		} else {
			intake.AIAssessment = *assessment
			score := -1
			if assessment.AIScore != nil {
				score = *assessment.AIScore
			}
			s.log.Infow("intake analysis completed", "matterType", req.Form.MatterType, "score", score)
		}
	}

	if err := s.store.Create(ctx, intake); err != nil {
		return nil, fmt.Errorf("failed to create intake: %w", err)
	}

	return &SubmitIntakeResult{Intake: intake}, nil
}

// ListIntakesResult represents the result of listing intakes
type ListIntakesResult struct {
	Intakes []*models.IntakeRecord
}

// ListIntakes retrieves all intakes, newest first
func (s *IntakeService) ListIntakes(ctx context.Context) (*ListIntakesResult, error) {
	if s.store == nil {
		return nil, errors.New("intake store not set")
	}

	intakes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	return &ListIntakesResult{Intakes: intakes}, nil
}

// DeleteIntakeRequest represents a request to delete an intake
type DeleteIntakeRequest struct {
	ID uuid.UUID
}

// DeleteIntake deletes an intake by id
func (s *IntakeService) DeleteIntake(ctx context.Context, req DeleteIntakeRequest) error {
	if s.store == nil {
		return errors.New("intake store not set")
	}

	return s.store.DeleteByID(ctx, req.ID)
}
