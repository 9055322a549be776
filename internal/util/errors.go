package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrInvalidCourse      = errors.New("invalid course content")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotEnrolled        = errors.New("no paid enrollment for this course")
	ErrInvalidStatus      = errors.New("invalid enrollment status")
	ErrUnitNotInCourse    = errors.New("learnable unit does not belong to course")
	ErrNoteNotFound       = errors.New("Note not found")
	ErrInvalidNote        = errors.New("invalid note")

	// reconciliation
	ErrMissingDependency   = errors.New("missing dependency")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrReconcileInProgress = errors.New("reconciliation already running")
)
