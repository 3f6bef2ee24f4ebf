package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/schrodchat/schrodchat-backend/internal/apierr"
	"github.com/schrodchat/schrodchat-backend/internal/clients/openai"
	"github.com/schrodchat/schrodchat-backend/internal/game"
	"github.com/schrodchat/schrodchat-backend/internal/logger"
	"github.com/schrodchat/schrodchat-backend/internal/rubric"
	"github.com/schrodchat/schrodchat-backend/internal/summary"
)

// LikertScore is one rubric dimension scored on the -2..+2 scale.
type LikertScore struct {
	Name      string `json:"name"`
	Scale     int    `json:"scale"`
	LowLabel  string `json:"low_label"`
	HighLabel string `json:"high_label"`
	Rationale string `json:"rationale"`
}

// Assessment is the full post-game result: the student-facing summary, the
// tutor-facing insights and the per-dimension scores. When the summary's deep
// dive names a dimension, its text replaces the scorer's rationale.
type Assessment struct {
	Summary  string
	Insights string
	Scores   []LikertScore
	Sections summary.Sections
}

type AssessmentService interface {
	ScoreTranscript(ctx context.Context, transcript []game.Message) ([]LikertScore, error)
	Assess(ctx context.Context, transcript []game.Message) (*Assessment, error)
}

type assessmentService struct {
	log    *logger.Logger
	ai     openai.Client
	rubric *rubric.Rubric
}

func NewAssessmentService(log *logger.Logger, ai openai.Client, r *rubric.Rubric) AssessmentService {
	return &assessmentService{
		log:    log.With("service", "AssessmentService"),
		ai:     ai,
		rubric: r,
	}
}

type scoredDimensions struct {
	Dimensions []struct {
		Name      string `json:"name"`
		Scale     int    `json:"scale"`
		Rationale string `json:"rationale"`
	} `json:"dimensions"`
}

func (s *assessmentService) ScoreTranscript(ctx context.Context, transcript []game.Message) ([]LikertScore, error) {
	system := promptScoreTranscript(s.rubric)
	history := transcriptMessages(transcript)

	obj, err := s.ai.GenerateJSON(ctx, system, history, "", "likert_scores", schemaScoreTranscript(s.rubric))
	if err != nil {
		return nil, apierr.Gateway(err)
	}
	var payload scoredDimensions
	if err := decodeObject(obj, &payload); err != nil {
		return nil, apierr.MalformedScoreResponse(fmt.Errorf("decode scores: %w", err))
	}

	if len(payload.Dimensions) != len(s.rubric.Dimensions) {
		return nil, apierr.MalformedScoreResponse(fmt.Errorf("expected %d dimensions, got %d", len(s.rubric.Dimensions), len(payload.Dimensions)))
	}
	seen := map[string]bool{}
	scores := make([]LikertScore, 0, len(payload.Dimensions))
	for _, d := range payload.Dimensions {
		dim, ok := s.rubric.ByName(d.Name)
		if !ok {
			return nil, apierr.MalformedScoreResponse(fmt.Errorf("unknown dimension %q", d.Name))
		}
		if seen[dim.Name] {
			return nil, apierr.MalformedScoreResponse(fmt.Errorf("duplicate dimension %q", dim.Name))
		}
		seen[dim.Name] = true
		if !rubric.ValidScale(d.Scale) {
			return nil, apierr.MalformedScoreResponse(fmt.Errorf("scale %d out of range for %q", d.Scale, dim.Name))
		}
		scores = append(scores, LikertScore{
			Name:      dim.Name,
			Scale:     d.Scale,
			LowLabel:  dim.LowLabel,
			HighLabel: dim.HighLabel,
			Rationale: d.Rationale,
		})
	}
	return scores, nil
}

func (s *assessmentService) Assess(ctx context.Context, transcript []game.Message) (*Assessment, error) {
	scores, err := s.ScoreTranscript(ctx, transcript)
	if err != nil {
		return nil, err
	}

	history := transcriptMessages(transcript)
	var studentSummary string
	var tutorInsights string

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		text, gErr := s.ai.GenerateText(egCtx, promptStudentSummary(s.rubric, scores), history, "")
		if gErr != nil {
			return apierr.Gateway(gErr)
		}
		studentSummary = text
		return nil
	})
	eg.Go(func() error {
		text, gErr := s.ai.GenerateText(egCtx, promptTutorInsights(s.rubric, scores), history, "")
		if gErr != nil {
			return apierr.Gateway(gErr)
		}
		tutorInsights = text
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sections := summary.Parse(studentSummary)
	for i := range scores {
		if r := summary.DimensionRationale(sections.DeepDive, scores[i].Name); r != "" {
			scores[i].Rationale = r
		}
	}

	return &Assessment{
		Summary:  studentSummary,
		Insights: tutorInsights,
		Scores:   scores,
		Sections: sections,
	}, nil
}
