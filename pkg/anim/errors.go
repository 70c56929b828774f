package anim

import (
	"errors"
	"fmt"
)

// Configuration errors. They abort the export and are wrapped in a
// *ConfigError naming the offending channel.
var (
	ErrUnknownChannelType   = errors.New("unknown channel type")
	ErrUnknownRotationOrder = errors.New("unknown rotation order")
	ErrEmptyChannel         = errors.New("channel has no keyframes")
	ErrMissingParm          = errors.New("missing parameter")
	ErrInvalidFPS           = errors.New("sampling rate must be positive")
	ErrInvalidChannelCount  = errors.New("invalid channel count")
)

// ConfigError reports a fatal channel configuration problem.
type ConfigError struct {
	Channel string // channel name or parameter, may be empty
	Err     error
	Detail  string
}

func (e *ConfigError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Channel != "" {
		return fmt.Sprintf("channel %q: %s", e.Channel, msg)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(channel string, err error, format string, args ...any) *ConfigError {
	return &ConfigError{Channel: channel, Err: err, Detail: fmt.Sprintf(format, args...)}
}
