package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(field, reason string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

func PostInvalid(source string, cause error) *BuildError {
	return Wrap(cause, CategoryValidation, SeverityFatal, "post validation failed").
		WithContext("source", source)
}

func ContentReadError(path string, cause error) *BuildError {
	return Wrap(cause, CategoryContent, SeverityFatal, "reading content failed").
		WithContext("path", path)
}

// Build pipeline errors

func StageFailed(stage string, cause error) *BuildError {
	return Wrap(cause, CategoryRender, SeverityFatal, "build stage failed").
		WithContext("stage", stage)
}

func EmitFailed(dest string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "site emit failed").
		WithContext("destination", dest)
}

func WorkspaceError(operation string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

// Git errors

func GitFetchError(url string, cause error) *BuildError {
	return Wrap(cause, CategoryGit, SeverityFatal, "content repository fetch failed").
		WithContext("url", url)
}

// Infrastructure errors

func ServerError(cause error) *BuildError {
	return Wrap(cause, CategoryServer, SeverityFatal, "http server failed")
}

func HistoryError(operation string, cause error) *BuildError {
	return Wrap(cause, CategoryHistory, SeverityWarning, "build history operation failed").
		WithContext("operation", operation)
}

func EventPublishError(subject string, cause error) *BuildError {
	return Wrap(cause, CategoryEvents, SeverityWarning, "event publish failed").
		WithContext("subject", subject)
}
