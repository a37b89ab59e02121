package docstore

import (
	"net/url"
	"strings"
)

// Prefijos de colección.
const (
	categoriesPrefix    = "categories/"
	coursesPrefix       = "courses/"
	enrollmentsPrefix   = "enrollments/"
	usersPrefix         = "users/"
	categoryNamesPrefix = "category-names/"
	userEmailsPrefix    = "user-emails/"
	quizzesPrefix       = "quizzes/"
	quizResultsPrefix   = "quiz-results/"
	sessionsPrefix      = "sessions/"
)

func categoryKey(id string) string { return categoriesPrefix + id }

func categoryCoursesPrefix(categoryID string) string {
	return categoriesPrefix + categoryID + "/courses/"
}

func categoryCourseKey(categoryID, courseID string) string {
	return categoryCoursesPrefix(categoryID) + courseID
}

func courseKey(id string) string { return coursesPrefix + id }

func enrollmentKey(studentID, id string) string {
	return enrollmentsPrefix + studentID + "/" + id
}

func userKey(role, id string) string { return usersPrefix + role + "/" + id }

func categoryNameKey(folded string) string {
	return categoryNamesPrefix + url.PathEscape(folded)
}

func userEmailKey(role, email string) string {
	return userEmailsPrefix + role + "/" + url.PathEscape(strings.ToLower(email))
}

func quizKey(id string) string { return quizzesPrefix + id }

func quizResultsOf(quizID string) string { return quizResultsPrefix + quizID + "/" }

func sessionsOf(courseID string) string { return sessionsPrefix + courseID + "/" }

// isDirectChild indica si key está exactamente un nivel por debajo de prefix.
func isDirectChild(prefix, key string) bool {
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	rest := key[len(prefix):]
	return rest != "" && !strings.Contains(rest, "/")
}
