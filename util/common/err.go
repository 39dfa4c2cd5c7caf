// Package common holds small error helpers shared across edusite packages.
package common

import (
	"errors"
	"fmt"

	"github.com/edusite/edusite/logger"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

func NewError(a ...any) error {
	msg := fmt.Sprintln(a...)
	return errors.New(msg)
}

// Combine joins the non-nil errors; it returns nil when all of them are nil.
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

// Recover must be deferred directly, e.g. defer common.Recover("job").
func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, " panic: ", panicErr)
		}
	}
	return panicErr
}
