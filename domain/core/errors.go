package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound      = errors.New("resource not found")
	ErrUnknownTarget = fmt.Errorf("%w: target", ErrNotFound)
	ErrAssetMissing  = fmt.Errorf("%w: asset", ErrNotFound)
	ErrModelMissing  = fmt.Errorf("%w: model", ErrNotFound)

	// Collaborator errors
	ErrModelUnavailable = errors.New("classification model unavailable")
)

// NewUnknownTargetError reports a target that has no valuable-features table.
func NewUnknownTargetError(target string) error {
	return fmt.Errorf("%w %q", ErrUnknownTarget, target)
}

// NewAssetMissingError reports an asset that could not be found at path.
func NewAssetMissingError(name, path string) error {
	return fmt.Errorf("%w: %s (%s)", ErrAssetMissing, name, path)
}

// NewModelMissingError reports a class model file that does not exist.
func NewModelMissingError(path string) error {
	return fmt.Errorf("%w: %s", ErrModelMissing, path)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnknownTarget(err error) bool {
	return errors.Is(err, ErrUnknownTarget)
}
