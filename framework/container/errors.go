package container

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every failure returned by the container matches exactly one
// of these through errors.Is, except ParameterError which also matches the
// error of the parameter that failed.
var (
	ErrTypeNotFound          = errors.New("container: type not found")
	ErrInvalidInstance       = errors.New("container: invalid instance")
	ErrUnresolvedAbstraction = errors.New("container: abstraction has no alias or instance")
	ErrNotInstantiable       = errors.New("container: type is not instantiable")
	ErrMissingTypeHint       = errors.New("container: missing type hint")
	ErrNonResolvableType     = errors.New("container: type cannot be resolved from the container")
	ErrParameterResolution   = errors.New("container: parameter resolution failed")
	ErrConstructionFailed    = errors.New("container: construction failed")
	ErrDuplicateService      = errors.New("container: service already registered")
	ErrAliasCycle            = errors.New("container: alias cycle")
	ErrDependencyCycle       = errors.New("container: dependency cycle")
	ErrResolutionTooDeep     = errors.New("container: resolution too deep")
)

// TypeError reports a failure concerning a single type identifier.
type TypeError struct {
	Type TypeID
	Err  error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%v [%s]", e.Err, e.Type)
}

func (e *TypeError) Unwrap() error { return e.Err }

// InstanceError is returned when a value cannot be registered as a service.
type InstanceError struct {
	Value any
	Err   error
}

func (e *InstanceError) Error() string {
	return fmt.Sprintf("%v: %T", e.Err, e.Value)
}

func (e *InstanceError) Unwrap() error { return e.Err }

// ParameterError is returned when a constructor argument could not be
// prepared. Position is 1-based.
type ParameterError struct {
	Type     TypeID
	Name     string
	Position int
	Err      error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("container: error while preparing the value of the parameter $%s (#%d) of %s: %v",
		e.Name, e.Position, e.Type, e.Err)
}

func (e *ParameterError) Unwrap() error { return e.Err }

func (e *ParameterError) Is(target error) bool { return target == ErrParameterResolution }

// ConstructionError wraps a failure raised by a factory.
type ConstructionError struct {
	Type TypeID
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("container: failed to construct [%s]: %v", e.Type, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func (e *ConstructionError) Is(target error) bool { return target == ErrConstructionFailed }

// DuplicateServiceError is returned under DuplicateReject when an id already
// has an instance.
type DuplicateServiceError struct {
	Type TypeID
}

func (e *DuplicateServiceError) Error() string {
	return fmt.Sprintf("container: service [%s] is already registered", e.Type)
}

func (e *DuplicateServiceError) Is(target error) bool { return target == ErrDuplicateService }

// AliasCycleError carries the alias hops that lead back to an earlier id.
type AliasCycleError struct {
	Path []TypeID
}

func (e *AliasCycleError) Error() string {
	return "container: alias cycle detected: " + joinPath(e.Path)
}

func (e *AliasCycleError) Is(target error) bool { return target == ErrAliasCycle }

// DependencyCycleError carries the resolution path, ending with the type that
// was requested a second time.
type DependencyCycleError struct {
	Path []TypeID
}

func (e *DependencyCycleError) Error() string {
	if len(e.Path) == 0 {
		return "container: circular dependency detected"
	}
	return "container: circular dependency detected: " + joinPath(e.Path)
}

func (e *DependencyCycleError) Is(target error) bool { return target == ErrDependencyCycle }

func joinPath(path []TypeID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = string(id)
	}
	return strings.Join(parts, " -> ")
}
