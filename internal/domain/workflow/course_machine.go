// Package workflow contiene las máquinas de estado de Course, Enrollment y User
// y el cálculo de plazas. Es código puro: no accede al store ni al reloj.
package workflow

import (
	"sort"
	"time"

	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// CourseEvent evento administrativo sobre una formación.
type CourseEvent string

const (
	EventPreApprove CourseEvent = "pre_approve"
	EventReject     CourseEvent = "reject"
	EventApprove    CourseEvent = "approve"
	EventPublish    CourseEvent = "publish"
	EventArchive    CourseEvent = "archive"
	EventAdminEdit  CourseEvent = "admin_edit"
)

// courseTransitions tabla central: estado actual -> evento -> estado siguiente.
// rejected no tiene salidas; archived solo acepta archive (no-op).
var courseTransitions = map[entity.CourseStatus]map[CourseEvent]entity.CourseStatus{
	entity.CourseStatusPending: {
		EventPreApprove: entity.CourseStatusPreValidated,
		EventReject:     entity.CourseStatusRejected,
		EventAdminEdit:  entity.CourseStatusPending,
	},
	entity.CourseStatusPreValidated: {
		EventApprove:   entity.CourseStatusValidated,
		EventReject:    entity.CourseStatusRejected,
		EventAdminEdit: entity.CourseStatusPreValidated,
	},
	entity.CourseStatusValidated: {
		EventPublish:   entity.CourseStatusPublished,
		EventAdminEdit: entity.CourseStatusValidated,
	},
	entity.CourseStatusPublished: {
		EventArchive: entity.CourseStatusArchived,
	},
	entity.CourseStatusArchived: {
		EventArchive: entity.CourseStatusArchived,
	},
}

// pipelineRank posición en el circuito para los estados que admiten forzado.
var pipelineRank = map[entity.CourseStatus]int{
	entity.CourseStatusPending:      0,
	entity.CourseStatusPreValidated: 1,
	entity.CourseStatusValidated:    2,
	entity.CourseStatusPublished:    3,
}

// NextCourseStatus resuelve el estado siguiente o devuelve InvalidTransitionError.
func NextCourseStatus(c *entity.Course, ev CourseEvent) (entity.CourseStatus, error) {
	if next, ok := courseTransitions[c.Status][ev]; ok {
		return next, nil
	}
	return "", &domain.InvalidTransitionError{
		Entity: "formación",
		ID:     c.ID,
		From:   string(c.Status),
		Event:  string(ev),
	}
}

// AllowedCourseEvents eventos aplicables desde un estado (ordenados).
func AllowedCourseEvents(s entity.CourseStatus) []CourseEvent {
	out := make([]CourseEvent, 0, len(courseTransitions[s]))
	for ev := range courseTransitions[s] {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CanForceStatus indica si adminEdit puede forzar `to` desde `from`.
// Solo avanza por el circuito (o se queda igual); nunca a rejected/archived ni hacia atrás.
func CanForceStatus(from, to entity.CourseStatus) bool {
	if _, ok := courseTransitions[from][EventAdminEdit]; !ok {
		return false
	}
	rf, okFrom := pipelineRank[from]
	rt, okTo := pipelineRank[to]
	return okFrom && okTo && rt >= rf
}

// IsExpired una formación publicada cuya fecha de fin ya pasó debe archivarse.
func IsExpired(c *entity.Course, now time.Time) bool {
	return c.Status == entity.CourseStatusPublished && !c.EndDate.IsZero() && c.EndDate.Before(now)
}
