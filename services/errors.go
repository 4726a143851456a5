// services/errors.go - Error taxonomy for the achievement engine
package services

import "fmt"

// StorageError wraps a persistence failure surfaced by a metric query or an
// unlock write. The resolver catches these per achievement and logs them;
// they never abort a whole batch.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// ValidationError marks a malformed requirement, such as an unknown type.
// The resolver treats it as "no evaluator matched" and skips the instance.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}
