// Package docs registers the OpenAPI document served by gin-swagger.
// Regenerate with: swag init -g cmd/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/quizzes/attempt": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Quizzes"],
                "summary": "Submit a quiz attempt",
                "parameters": [{"in": "body", "name": "submission", "required": true, "schema": {"$ref": "#/definitions/dto.QuizAttemptSubmitDTO"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.QuizAttemptResultDTO"}},
                    "400": {"description": "Missing fields or quiz not in course", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Not enrolled in the course", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Quiz not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Quiz misconfigured or attempt could not be saved", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/quizzes/results": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Quizzes"],
                "summary": "List quiz attempts",
                "parameters": [
                    {"type": "string", "name": "courseId", "in": "query", "required": true},
                    {"type": "string", "name": "lessonId", "in": "query"},
                    {"type": "string", "name": "userId", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.QuizAttemptDTO"}}},
                    "400": {"description": "courseId missing or bad paging", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Not allowed to view another user's results", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/lessons/{lesson_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Lessons"],
                "summary": "Get a lesson",
                "parameters": [{"type": "string", "name": "lesson_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LessonResponseDTO"}},
                    "403": {"description": "Not enrolled in the course", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Lesson not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/enrollments/unenroll": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Enrollments"],
                "summary": "Leave a course",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.UnenrollRequestDTO"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Not enrolled", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/payments/checkout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "Start a course checkout",
                "parameters": [{"in": "body", "name": "checkout", "required": true, "schema": {"$ref": "#/definitions/dto.CheckoutRequestDTO"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CheckoutResponseDTO"}},
                    "400": {"description": "Missing courseId or already enrolled", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Course not found or inactive", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Payment provider unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/payments/webhook": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "Payment provider webhook",
                "parameters": [{"type": "string", "name": "Stripe-Signature", "in": "header", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WebhookAckDTO"}},
                    "400": {"description": "Bad signature or payload", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Processing failed, provider should retry", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/lessons": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin - Lessons"],
                "summary": "(Admin) Create a lesson",
                "parameters": [{"in": "body", "name": "lesson", "required": true, "schema": {"$ref": "#/definitions/dto.LessonCreateDTO"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.AdminLessonResponseDTO"}},
                    "400": {"description": "Invalid input or question list", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Not an instructor of this course", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Module not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/assignments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin - Assignments"],
                "summary": "(Admin) Create an assignment",
                "parameters": [{"in": "body", "name": "assignment", "required": true, "schema": {"$ref": "#/definitions/dto.AssignmentCreateDTO"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.AssignmentResponseDTO"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Not an instructor of this course", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Course or module not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/assignments/submit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Assignments"],
                "summary": "Submit an assignment",
                "parameters": [{"in": "body", "name": "submission", "required": true, "schema": {"$ref": "#/definitions/dto.SubmissionCreateDTO"}}],
                "responses": {
                    "200": {"description": "Resubmission", "schema": {"$ref": "#/definitions/dto.SubmissionAckDTO"}},
                    "201": {"description": "First submission", "schema": {"$ref": "#/definitions/dto.SubmissionAckDTO"}},
                    "400": {"description": "assignmentId or submissionUrl missing", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Not enrolled in the course", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Assignment not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Assignments"],
                "summary": "Get a submission",
                "parameters": [
                    {"type": "string", "name": "assignmentId", "in": "query", "required": true},
                    {"type": "string", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SubmissionDTO"}},
                    "403": {"description": "Not allowed to view another user's submission", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "No submission", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/assignments/grade": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Assignments"],
                "summary": "Grade a submission",
                "parameters": [{"in": "body", "name": "grade", "required": true, "schema": {"$ref": "#/definitions/dto.GradeSubmissionDTO"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GradeResponseDTO"}},
                    "400": {"description": "Missing fields or score out of range", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Not the course instructor", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Submission not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Assignments"],
                "summary": "List submissions of an assignment",
                "parameters": [
                    {"type": "string", "name": "assignmentId", "in": "query", "required": true},
                    {"type": "string", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.SubmissionDTO"}}},
                    "403": {"description": "Not the course instructor", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Assignment not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/analytics/learner": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "Learner progress and engagement",
                "parameters": [{"type": "string", "name": "userId", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LearnerAnalyticsDTO"}},
                    "403": {"description": "Not allowed to view this learner", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.QuizAttemptSubmitDTO": {
            "type": "object",
            "required": ["answers", "courseId", "quizId"],
            "properties": {
                "quizId": {"type": "string"},
                "courseId": {"type": "string"},
                "answers": {"type": "array", "items": {"type": "object"}}
            }
        },
        "dto.ReviewedAnswerDTO": {
            "type": "object",
            "properties": {
                "questionId": {"type": "string"},
                "selectedOption": {},
                "isCorrect": {"type": "boolean"}
            }
        },
        "dto.QuizAttemptResultDTO": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "attemptId": {"type": "string"},
                "score": {"type": "integer"},
                "passedRequired": {"type": "boolean"},
                "correctCount": {"type": "integer"},
                "totalQuestions": {"type": "integer"},
                "reviewedAnswers": {"type": "array", "items": {"$ref": "#/definitions/dto.ReviewedAnswerDTO"}}
            }
        },
        "dto.QuizAttemptDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "lesson_id": {"type": "string"},
                "user_id": {"type": "string"},
                "course_id": {"type": "string"},
                "answers_submitted": {"type": "array", "items": {"$ref": "#/definitions/dto.ReviewedAnswerDTO"}},
                "score": {"type": "integer"},
                "correct_count": {"type": "integer"},
                "total_questions": {"type": "integer"},
                "attempted_at": {"type": "string"}
            }
        },
        "dto.QuizQuestionDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "question": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.LessonResponseDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "module_id": {"type": "string"},
                "course_id": {"type": "string"},
                "title": {"type": "string"},
                "content_type": {"type": "string"},
                "content": {"type": "string"},
                "video_url": {"type": "string"},
                "order_index": {"type": "integer"},
                "duration_minutes": {"type": "integer"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/dto.QuizQuestionDTO"}},
                "passing_score": {"type": "integer"}
            }
        },
        "dto.LessonCreateDTO": {
            "type": "object",
            "required": ["content_type", "module_id", "title"],
            "properties": {
                "module_id": {"type": "string"},
                "title": {"type": "string"},
                "content_type": {"type": "string", "enum": ["text", "video", "quiz"]},
                "content": {"type": "string"},
                "video_url": {"type": "string"},
                "order_index": {"type": "integer", "minimum": 0},
                "duration_minutes": {"type": "integer", "minimum": 1},
                "questions": {"type": "array", "items": {"type": "object"}}
            }
        },
        "dto.AdminLessonResponseDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "module_id": {"type": "string"},
                "title": {"type": "string"},
                "content_type": {"type": "string"},
                "content": {"type": "string"},
                "order_index": {"type": "integer"},
                "question_count": {"type": "integer"}
            }
        },
        "dto.UnenrollRequestDTO": {
            "type": "object",
            "required": ["courseId"],
            "properties": {"courseId": {"type": "string"}}
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}}
        },
        "dto.CheckoutRequestDTO": {
            "type": "object",
            "required": ["courseId"],
            "properties": {"courseId": {"type": "string"}}
        },
        "dto.CheckoutResponseDTO": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "sessionId": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "dto.WebhookAckDTO": {
            "type": "object",
            "properties": {
                "received": {"type": "boolean"},
                "duplicate": {"type": "boolean"},
                "status": {"type": "string"}
            }
        },
        "dto.AssignmentCreateDTO": {
            "type": "object",
            "required": ["course_id", "title", "description"],
            "properties": {
                "course_id": {"type": "string"},
                "module_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "due_date": {"type": "string"},
                "max_score": {"type": "integer"},
                "submission_type": {"type": "string", "enum": ["github", "google_docs", "text"]}
            }
        },
        "dto.AssignmentResponseDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "course_id": {"type": "string"},
                "module_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "due_date": {"type": "string"},
                "max_score": {"type": "integer"},
                "submission_type": {"type": "string"}
            }
        },
        "dto.SubmissionCreateDTO": {
            "type": "object",
            "required": ["assignmentId", "submissionUrl"],
            "properties": {
                "assignmentId": {"type": "string"},
                "submissionUrl": {"type": "string"},
                "submissionText": {"type": "string"}
            }
        },
        "dto.SubmissionAckDTO": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "submissionId": {"type": "string"},
                "status": {"type": "string"},
                "submittedAt": {"type": "string"}
            }
        },
        "dto.GradeSubmissionDTO": {
            "type": "object",
            "required": ["submissionId", "score", "instructorFeedback"],
            "properties": {
                "submissionId": {"type": "string"},
                "score": {"type": "integer"},
                "instructorFeedback": {"type": "string"}
            }
        },
        "dto.SubmissionDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "assignment_id": {"type": "string"},
                "user_id": {"type": "string"},
                "submission_url": {"type": "string"},
                "submission_text": {"type": "string"},
                "submitted_at": {"type": "string"},
                "score": {"type": "integer"},
                "instructor_feedback": {"type": "string"},
                "status": {"type": "string"},
                "graded_by": {"type": "string"},
                "graded_at": {"type": "string"}
            }
        },
        "dto.GradeResponseDTO": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "submission": {"$ref": "#/definitions/dto.SubmissionDTO"}
            }
        },
        "dto.EnrolledCourseDTO": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "string"},
                "progress": {"type": "number"},
                "enrolledAt": {"type": "string"}
            }
        },
        "dto.LearnerAnalyticsDTO": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "enrolledCoursesCount": {"type": "integer"},
                "completedCoursesCount": {"type": "integer"},
                "completionRate": {"type": "integer"},
                "enrolledCourses": {"type": "array", "items": {"$ref": "#/definitions/dto.EnrolledCourseDTO"}},
                "quizzesAttempted": {"type": "integer"},
                "quizzesPassed": {"type": "integer"},
                "averageQuizScore": {"type": "integer"},
                "assignmentsSubmitted": {"type": "integer"},
                "assignmentsGraded": {"type": "integer"},
                "averageAssignmentScore": {"type": "integer"},
                "engagementScore": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Learnhub API",
	Description:      "Course quizzes with server-side grading, assignments, enrollments, payments and learner analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
