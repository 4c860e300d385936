package domain

type ErrorCode string

const (
	ErrorCodeValidation      ErrorCode = "VALIDATION"
	ErrorCodeManagerNotFound ErrorCode = "MANAGER_NOT_FOUND"
	ErrorCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrorCodeConflict        ErrorCode = "CONFLICT"
)

type DomainError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
}

func (e *DomainError) Error() string {
	return string(e.Code) + ": " + e.Message
}
