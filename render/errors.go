package render

import "github.com/cockroachdb/errors"

var (
	// ErrInitialization marks every creation failure during bring-up or
	// swapchain recreation.
	ErrInitialization = errors.New("renderer initialization failed")

	ErrNoDevice          = errors.New("no physical devices found")
	ErrNoSuitableDevice  = errors.New("no suitable physical device found")
	ErrDeviceCreation    = errors.New("logical device creation failed")
	ErrSwapchainCreation = errors.New("swapchain creation failed")
	ErrPipelineCreation  = errors.New("pipeline creation failed")
	ErrSurfaceCreation   = errors.New("surface creation failed")

	// ErrPresentation is returned when acquire, submit or present reports an
	// unrecoverable status.
	ErrPresentation = errors.New("presentation failed")
)

// initError wraps cause with msg and marks it with kind and ErrInitialization.
func initError(cause error, kind error, msg string, args ...interface{}) error {
	err := errors.Wrapf(cause, msg, args...)
	if kind != nil && kind != ErrInitialization {
		err = errors.Mark(err, kind)
	}
	return errors.Mark(err, ErrInitialization)
}

func presentationError(cause error, msg string) error {
	return errors.Mark(errors.Wrap(cause, msg), ErrPresentation)
}
