package usecase

import (
	"time"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

// InterviewService drives the extract-skills -> generate-questions -> store
// pipeline for one session.
type InterviewService struct {
	Skills    SkillService
	Questions QuestionService
	Sessions  domain.SessionStore
}

// NewInterviewService constructs an InterviewService.
func NewInterviewService(skills SkillService, questions QuestionService, sessions domain.SessionStore) InterviewService {
	return InterviewService{Skills: skills, Questions: questions, Sessions: sessions}
}

// Prepare extracts skills from the job description, generates questions for
// them, and stores the resulting session, fully replacing any prior entry
// with the same id. LLM failures on either call propagate and leave the
// prior entry untouched.
func (s InterviewService) Prepare(ctx domain.Context, sessionID, jdText string) (domain.Session, error) {
	skills, err := s.Skills.Extract(ctx, jdText)
	if err != nil {
		return domain.Session{}, err
	}
	questions, err := s.Questions.Generate(ctx, skills)
	if err != nil {
		return domain.Session{}, err
	}
	sess := domain.Session{
		ID:             sessionID,
		JobDescription: jdText,
		Skills:         skills,
		Questions:      questions,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Sessions.Put(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}
