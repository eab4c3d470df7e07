package logging

import (
	"time"

	"go.uber.org/zap"
)

// Op names the operation being performed.
func Op(v string) zap.Field { return zap.String("op", v) }

// TaskID identifies a task.
func TaskID(v int64) zap.Field { return zap.Int64("task_id", v) }

// Email identifies a user.
func Email(v string) zap.Field { return zap.String("email", v) }

// Method is the HTTP method of an API call.
func Method(v string) zap.Field { return zap.String("method", v) }

// Path is the API path of a call.
func Path(v string) zap.Field { return zap.String("path", v) }

// Status is an HTTP status code.
func Status(v int) zap.Field { return zap.Int("status", v) }

// RequestID is the X-Request-ID sent with a call.
func RequestID(v string) zap.Field { return zap.String("request_id", v) }

// Duration is the elapsed time of a call.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// Count is a generic count.
func Count(v int) zap.Field { return zap.Int("count", v) }

// Kind is an apierr kind name.
func Kind(v string) zap.Field { return zap.String("kind", v) }

// Err attaches an error.
func Err(err error) zap.Field { return zap.Error(err) }
