// Package logger builds the meal service's zerolog logger.
package logger

import (
	"io"
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

var installStacks sync.Once

// withStack attaches a pkg/errors stack unless err already carries one.
func withStack(err error) error {
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return pkgerrors.WithStack(err)
}

// New returns a JSON logger on stdout tagged with service. Production logs
// start at info; every other environment includes debug events.
func New(service, environment string) zerolog.Logger {
	return NewWithWriter(service, environment, os.Stdout)
}

// NewWithWriter is New with an explicit sink. Error events logged with
// .Stack() carry a "stack" field.
func NewWithWriter(service, environment string, w io.Writer) zerolog.Logger {
	installStacks.Do(func() {
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			return zpkgerrors.MarshalStack(withStack(err))
		}
	})

	level := zerolog.DebugLevel
	if environment == "production" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", service).
		Str("environment", environment).
		Logger()
}
