package errors

// Semantic constructors for the status codes the backend actually returns.

func BadRequest(format string, args ...any) *Error {
	return New(400, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(401, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(403, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(404, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(409, format, args...)
}

func UnprocessableEntity(format string, args ...any) *Error {
	return New(422, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(500, format, args...)
}

func ServiceUnavailable(format string, args ...any) *Error {
	return New(503, format, args...)
}

// IsUnauthorized reports whether err carries a 401 code.
func IsUnauthorized(err error) bool {
	return Code(err) == 401
}

// IsForbidden reports whether err carries a 403 code.
func IsForbidden(err error) bool {
	return Code(err) == 403
}

// IsServerError reports whether err carries a 5xx code.
func IsServerError(err error) bool {
	return Code(err) >= 500
}
