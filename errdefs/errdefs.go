package errdefs // import "github.com/JohnathanALves/reaction/errdefs"

import "fmt"

// ErrNotFound indicates that the named model does not exist.
type ErrNotFound struct {
	model string
}

func NewErrNotFound(model string) ErrNotFound {
	return ErrNotFound{
		model: model,
	}
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", err.model)
}

// ErrAlreadyExists indicates a uniqueness violation on the named model.
type ErrAlreadyExists struct {
	model string
}

func NewErrAlreadyExists(model string) ErrAlreadyExists {
	return ErrAlreadyExists{
		model: model,
	}
}

func (err ErrAlreadyExists) Error() string {
	return fmt.Sprintf("%s already exists", err.model)
}

// ErrCannotBeEmpty indicates that a required field was blank.
type ErrCannotBeEmpty struct {
	field string
}

func NewErrCannotBeEmpty(field string) ErrCannotBeEmpty {
	return ErrCannotBeEmpty{
		field: field,
	}
}

func (err ErrCannotBeEmpty) Error() string {
	return fmt.Sprintf("%s cannot be empty", err.field)
}

// ErrAccessDenied indicates that the authorization oracle refused the
// named operation before any state was touched.
type ErrAccessDenied struct {
	operation string
}

func NewErrAccessDenied(operation string) ErrAccessDenied {
	return ErrAccessDenied{
		operation: operation,
	}
}

func (err ErrAccessDenied) Error() string {
	return fmt.Sprintf("access denied: %s", err.operation)
}

// ErrConflict indicates that a version-checked write lost to a
// concurrent modification of the named model.
type ErrConflict struct {
	model string
}

func NewErrConflict(model string) ErrConflict {
	return ErrConflict{
		model: model,
	}
}

func (err ErrConflict) Error() string {
	return fmt.Sprintf("%s modified concurrently", err.model)
}

// ErrPartialUpdate indicates that a fan-out over the named model
// completed for some elements and failed for others. The operation is
// safe to replay.
type ErrPartialUpdate struct {
	model  string
	failed int
	total  int
}

func NewErrPartialUpdate(model string, failed, total int) ErrPartialUpdate {
	return ErrPartialUpdate{
		model:  model,
		failed: failed,
		total:  total,
	}
}

func (err ErrPartialUpdate) Error() string {
	return fmt.Sprintf("%s partially updated: %d of %d failed", err.model, err.failed, err.total)
}

// Failed reports how many elements of the fan-out failed.
func (err ErrPartialUpdate) Failed() int {
	return err.failed
}

// Total reports how many elements the fan-out covered.
func (err ErrPartialUpdate) Total() int {
	return err.total
}
