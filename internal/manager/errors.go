package manager

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a node, edge, or variable addressed by an
// operation does not exist in the document.
type NotFoundError struct {
	// ResourceType categorizes what was looked up ("node", "edge",
	// "environment variable", "conversation variable").
	ResourceType string

	// ResourceName is the identifier that failed to resolve.
	ResourceName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a NotFoundError for the given resource.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceName: resourceName}
}

// AlreadyExistsError reports that an id being added collides with an
// existing one.
type AlreadyExistsError struct {
	ResourceType string
	ResourceName string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.ResourceType, e.ResourceName)
}

// IsAlreadyExists checks if an error is or wraps an AlreadyExistsError.
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// NewAlreadyExistsError creates an AlreadyExistsError for the given resource.
func NewAlreadyExistsError(resourceType, resourceName string) *AlreadyExistsError {
	return &AlreadyExistsError{ResourceType: resourceType, ResourceName: resourceName}
}
