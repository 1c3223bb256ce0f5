package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrMissingFields    = errors.New("Missing required fields.")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrEmailDomainNotAllowed = errors.New("email must belong to the institutional domain")
	ErrInvalidRole           = errors.New("role must be Admin or Judge")
	ErrInvalidCandidateRole  = errors.New("candidate role must be Mr or Ms")

	// Category validation, checked in order: first failing rule wins.
	ErrCategoryNameRequired       = errors.New("Category name is required.")
	ErrCategoryPercentageRequired = errors.New("Category percentage is required.")
	ErrCriteriaRequired           = errors.New("At least one criterion is required.")
	ErrCriteriaIncomplete         = errors.New("Each criterion needs a name and a percentage between 0 and 100.")
	ErrCriteriaSumInvalid         = errors.New("Total criteria percentage must equal 100%.")

	// Score submission
	ErrUnknownCriterion = errors.New("submitted criterion is not defined for this category")
	ErrScoreOutOfRange  = errors.New("score exceeds the criterion percentage or is negative")

	// Conflicts
	ErrDuplicateCandidate = errors.New("Candidate with the same number in a role already exists for the selected year.")
	ErrUserEmailConflict  = errors.New("email address is already in use")
	ErrYearConflict       = errors.New("year already exists")
	ErrActiveYearConflict = errors.New("another year is already active")

	// Authentication
	ErrAuthInvalidCredentials = errors.New("invalid email or password")

	// Entity lookups
	ErrNoActiveYear      = errors.New("no active year configured")
	ErrYearNotFound      = errors.New("year not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrUserNotFound      = errors.New("user not found")
)
