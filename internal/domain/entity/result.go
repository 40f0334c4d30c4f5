package entity

import "errors"

// ActionResult holds exactly one of a success value or a failure.
// The zero value is not a valid result; build one with Success or Failure.
type ActionResult[T any] struct {
	value T
	err   *ActionError
}

func Success[T any](value T) ActionResult[T] {
	return ActionResult[T]{value: value}
}

func Failure[T any](err *ActionError) ActionResult[T] {
	if err == nil {
		err = NewActionError(KindUnknown, "failure without descriptor", nil)
	}
	return ActionResult[T]{err: err}
}

// FromError converts an error returned by the driver into a failed result.
// Errors that are not *ActionError become KindUnknown.
func FromError[T any](err error) ActionResult[T] {
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return Failure[T](actionErr)
	}
	if err == nil {
		return Failure[T](nil)
	}
	return Failure[T](NewActionError(KindUnknown, err.Error(), err))
}

func (r ActionResult[T]) OK() bool {
	return r.err == nil
}

func (r ActionResult[T]) Value() (T, bool) {
	if r.err != nil {
		var zero T
		return zero, false
	}
	return r.value, true
}

func (r ActionResult[T]) Err() *ActionError {
	if r.err == nil {
		return nil
	}
	cp := *r.err
	return &cp
}

// Outcome is "success" or the failure kind, used for metrics labels and logs.
func (r ActionResult[T]) Outcome() string {
	if r.err == nil {
		return OutcomeSuccess
	}
	return r.err.Kind.String()
}

const OutcomeSuccess = "success"
