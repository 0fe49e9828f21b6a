package service

// Error is a coded domain outcome. The set below is closed: handlers map
// codes to HTTP statuses and clients branch on them, so new codes are an
// API change. Not-found and ownership failures share one code: a caller
// must not be able to tell "someone else's" from "does not exist".
type Error struct {
	code string
}

func (e *Error) Error() string { return e.code }

// Code returns the wire-level error code.
func (e *Error) Code() string { return e.code }

var (
	ErrNotFound               = &Error{"not_found"}
	ErrCourseNotFound         = &Error{"course_not_found"}
	ErrEnrollmentNotFound     = &Error{"enrollment_not_found"}
	ErrStudentNotFound        = &Error{"student_not_found"}
	ErrRevoked                = &Error{"revoked"}
	ErrAlreadyEnrolled        = &Error{"already_enrolled"}
	ErrInvalidDuration        = &Error{"invalid_duration"}
	ErrLessonWrongCourse      = &Error{"lesson_wrong_course"}
	ErrDoneViaCompleteOnly    = &Error{"done_via_complete_only"}
	ErrCannotCompleteCanceled = &Error{"cannot_complete_canceled"}
	ErrAlreadyChecked         = &Error{"already_checked"}
	ErrInvalidGrade           = &Error{"invalid_grade"}
	ErrEmailAlreadyExists     = &Error{"email_already_exists"}
	ErrInvalidCredentials     = &Error{"invalid_credentials"}
	ErrInvalidRole            = &Error{"invalid_role"}
	ErrInvalidResetToken      = &Error{"invalid_or_expired"}
	ErrInvalidInput           = &Error{"invalid_input"}
)
