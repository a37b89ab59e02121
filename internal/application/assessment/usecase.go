// Package assessment quizzes de las formaciones y notas de los estudiantes.
package assessment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// UseCase casos de uso de quizzes y notas.
type UseCase struct {
	repos ports.Repositories
	log   zerolog.Logger
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos ports.Repositories, log zerolog.Logger) *UseCase {
	return &UseCase{repos: repos, log: log, now: time.Now}
}

// CreateQuiz crea un quiz sobre una formación publicada o archivada.
// owner no vacío exige que la formación sea de ese formador.
func (uc *UseCase) CreateQuiz(ctx context.Context, owner string, in dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "es requerido")
	}
	c, err := uc.repos.Courses.GetByID(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("formación", in.CourseID)
	}
	if err := checkOwner(owner, c.InstructorID); err != nil {
		return nil, err
	}
	if c.Status != entity.CourseStatusPublished && c.Status != entity.CourseStatusArchived {
		return nil, &domain.InvalidTransitionError{Entity: "formación", ID: c.ID, From: string(c.Status), Event: "create_quiz"}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	q := &entity.Quiz{
		ID:           id.String(),
		CourseID:     c.ID,
		InstructorID: c.InstructorID,
		Title:        title,
		CreatedAt:    uc.now(),
	}
	if err := uc.repos.Assessments.CreateQuiz(ctx, q); err != nil {
		return nil, err
	}
	uc.log.Info().Str("quiz_id", q.ID).Str("course_id", q.CourseID).Msg("quiz creado")
	return &dto.QuizResponse{ID: q.ID, CourseID: q.CourseID, InstructorID: q.InstructorID, Title: q.Title, CreatedAt: q.CreatedAt}, nil
}

// RecordResult registra la nota de un estudiante con inscripción confirmada en la formación del quiz.
func (uc *UseCase) RecordResult(ctx context.Context, owner, quizID string, in dto.RecordResultRequest) (*dto.QuizResultResponse, error) {
	q, err := uc.repos.Assessments.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.NewNotFoundError("quiz", quizID)
	}
	if err := checkOwner(owner, q.InstructorID); err != nil {
		return nil, err
	}
	if in.Score.IsNegative() || in.Score.GreaterThan(entity.MaxScore) {
		return nil, domain.NewValidationError("score", "debe estar entre 0 y "+entity.MaxScore.String())
	}
	student, err := uc.repos.Users.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.Role != entity.RoleStudent {
		return nil, domain.NewNotFoundError("estudiante", in.StudentID)
	}
	enrolled, err := uc.confirmedIn(ctx, in.StudentID, q.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, domain.NewValidationError("student_id", "no tiene una inscripción confirmada en la formación")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	r := &entity.QuizResult{ID: id.String(), QuizID: q.ID, StudentID: in.StudentID, Score: in.Score, RecordedAt: uc.now()}
	if err := uc.repos.Assessments.CreateResult(ctx, r); err != nil {
		return nil, err
	}
	return &dto.QuizResultResponse{ID: r.ID, QuizID: r.QuizID, StudentID: r.StudentID, Score: r.Score, RecordedAt: r.RecordedAt}, nil
}

// ResultsForInstructor notas de todos los quizzes del formador. Las notas de
// estudiantes que ya no existen se omiten.
func (uc *UseCase) ResultsForInstructor(ctx context.Context, instructorID string) (*dto.ResultListResponse, error) {
	if instructorID == "" {
		return nil, domain.NewValidationError("instructor_id", "es requerido")
	}
	quizzes, err := uc.repos.Assessments.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	students := make(map[string]*entity.User)
	titles := make(map[string]string)
	items := make([]dto.ResultRow, 0)
	for _, q := range quizzes {
		if q.InstructorID != instructorID {
			continue
		}
		results, err := uc.repos.Assessments.ListResults(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			continue
		}
		title, err := uc.courseTitle(ctx, titles, q.CourseID)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			st, ok := students[r.StudentID]
			if !ok {
				if st, err = uc.repos.Users.GetByID(ctx, r.StudentID); err != nil {
					return nil, err
				}
				students[r.StudentID] = st
			}
			if st == nil {
				continue
			}
			items = append(items, dto.ResultRow{
				ID:               r.ID,
				StudentID:        st.ID,
				StudentFirstName: st.FirstName,
				StudentLastName:  st.LastName,
				CourseID:         q.CourseID,
				CourseTitle:      title,
				QuizID:           q.ID,
				QuizTitle:        q.Title,
				Score:            r.Score,
				MaxScore:         entity.MaxScore,
			})
		}
	}
	return &dto.ResultListResponse{Items: items, Total: len(items)}, nil
}

func (uc *UseCase) courseTitle(ctx context.Context, cache map[string]string, courseID string) (string, error) {
	if t, ok := cache[courseID]; ok {
		return t, nil
	}
	c, err := uc.repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return "", err
	}
	title := "Sin definir"
	if c != nil && c.Title != "" {
		title = c.Title
	}
	cache[courseID] = title
	return title, nil
}

func (uc *UseCase) confirmedIn(ctx context.Context, studentID, courseID string) (bool, error) {
	list, err := uc.repos.Enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return false, err
	}
	for _, e := range list {
		if e.StudentID == studentID && e.Status == entity.EnrollmentStatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func checkOwner(owner, instructorID string) error {
	if owner != "" && owner != instructorID {
		return fmt.Errorf("%w: la formación es de otro formador", domain.ErrForbidden)
	}
	return nil
}
