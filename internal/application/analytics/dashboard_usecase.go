// Package analytics resumen del circuito de moderación (dashboard) y
// lista de inscritos en PDF.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/enrollment"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/repository"
	"github.com/jhoicas/formaciones-api/internal/domain/workflow"
)

// CourseLoader lectura de formaciones con el archivado perezoso ya aplicado.
type CourseLoader interface {
	Load(ctx context.Context, id string) (*entity.Course, error)
	LoadAll(ctx context.Context) ([]*entity.Course, error)
}

// DashboardUseCase genera el resumen del panel de administración.
type DashboardUseCase struct {
	courses     CourseLoader
	enrollments repository.EnrollmentRepository
	users       repository.UserRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(courses CourseLoader, enrollments repository.EnrollmentRepository, users repository.UserRepository) *DashboardUseCase {
	return &DashboardUseCase{courses: courses, enrollments: enrollments, users: users}
}

// GetSummary conteos por estado y ocupación de las formaciones publicadas.
//
// Tres lecturas en paralelo: formaciones, inscripciones y usuarios.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type coursesResult struct {
		list []*entity.Course
		err  error
	}
	type enrollmentsResult struct {
		list []*entity.Enrollment
		err  error
	}
	type usersResult struct {
		list []*entity.User
		err  error
	}

	coursesCh := make(chan coursesResult, 1)
	enrollmentsCh := make(chan enrollmentsResult, 1)
	usersCh := make(chan usersResult, 1)

	go func() {
		list, err := uc.courses.LoadAll(ctx)
		coursesCh <- coursesResult{list, err}
	}()
	go func() {
		list, err := uc.enrollments.List(ctx)
		enrollmentsCh <- enrollmentsResult{list, err}
	}()
	go func() {
		list, err := uc.users.List(ctx, "")
		usersCh <- usersResult{list, err}
	}()

	courses := <-coursesCh
	enrollments := <-enrollmentsCh
	users := <-usersCh

	if courses.err != nil {
		return nil, fmt.Errorf("dashboard: formaciones: %w", courses.err)
	}
	if enrollments.err != nil {
		return nil, fmt.Errorf("dashboard: inscripciones: %w", enrollments.err)
	}
	if users.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios: %w", users.err)
	}

	out := &dto.DashboardSummaryDTO{
		CoursesByStatus:     make(map[string]int, len(entity.CourseStatuses)),
		EnrollmentsByStatus: make(map[string]int, 3),
		Published:           make([]dto.PublishedCourseDTO, 0),
	}
	for _, s := range entity.CourseStatuses {
		out.CoursesByStatus[string(s)] = 0
	}
	for _, s := range []entity.EnrollmentStatus{entity.EnrollmentStatusPending, entity.EnrollmentStatusConfirmed, entity.EnrollmentStatusDeclined} {
		out.EnrollmentsByStatus[string(s)] = 0
	}
	for _, e := range enrollments.list {
		out.EnrollmentsByStatus[string(e.Status)]++
	}
	for _, u := range users.list {
		if u.Status == entity.UserStatusPending {
			out.PendingUsers++
		}
	}
	for _, c := range courses.list {
		out.CoursesByStatus[string(c.Status)]++
		if c.Status != entity.CourseStatusPublished {
			continue
		}
		out.Published = append(out.Published, dto.PublishedCourseDTO{
			CourseID: c.ID,
			Title:    c.Title,
			Capacity: *enrollment.ToCapacityResponse(workflow.ComputeCapacity(c, enrollments.list)),
		})
	}
	return out, nil
}
