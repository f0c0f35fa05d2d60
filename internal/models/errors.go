package models

import (
	"github.com/cockroachdb/errors"
)

// ErrDecode marks every failure to turn an upstream payload into the domain
// model. A decode failure means the API contract changed and the call should
// not be retried.
var ErrDecode = errors.New("decode failure")

func decodeFailure(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ErrDecode)
}

func missingField(entity, key string) error {
	return errors.Mark(errors.Newf("%s: missing required field %q", entity, key), ErrDecode)
}

func malformed(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrDecode)
}
