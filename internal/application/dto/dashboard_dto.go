package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	CoursesByStatus     map[string]int       `json:"courses_by_status"`
	EnrollmentsByStatus map[string]int       `json:"enrollments_by_status"`
	PendingUsers        int                  `json:"pending_users"`
	Published           []PublishedCourseDTO `json:"published"`
}

// PublishedCourseDTO formación publicada con su ocupación.
type PublishedCourseDTO struct {
	CourseID string           `json:"course_id"`
	Title    string           `json:"title"`
	Capacity CapacityResponse `json:"capacity"`
}
