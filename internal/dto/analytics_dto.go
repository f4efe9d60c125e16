package dto

import "time"

type EnrolledCourseDTO struct {
	CourseID           string    `json:"courseId"`
	Title              string    `json:"title"`
	Status             string    `json:"status"`
	ProgressPercentage float64   `json:"progress"`
	EnrolledAt         time.Time `json:"enrolledAt"`
}

// LearnerAnalyticsDTO summarises a learner's enrollments, quizzes and assignments.
type LearnerAnalyticsDTO struct {
	UserID                 string              `json:"userId"`
	EnrolledCoursesCount   int                 `json:"enrolledCoursesCount"`
	CompletedCoursesCount  int                 `json:"completedCoursesCount"`
	CompletionRate         int                 `json:"completionRate"`
	EnrolledCourses        []EnrolledCourseDTO `json:"enrolledCourses"`
	QuizzesAttempted       int64               `json:"quizzesAttempted"`
	QuizzesPassed          int64               `json:"quizzesPassed"`
	AverageQuizScore       int                 `json:"averageQuizScore"`
	AssignmentsSubmitted   int64               `json:"assignmentsSubmitted"`
	AssignmentsGraded      int64               `json:"assignmentsGraded"`
	AverageAssignmentScore int                 `json:"averageAssignmentScore"`
	EngagementScore        int                 `json:"engagementScore"`
}
