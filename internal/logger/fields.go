package logger

import (
	"time"

	"go.uber.org/zap"
)

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// Op names the operation being performed.
func Op(v string) zap.Field { return zap.String("op", v) }

// Component names the package or subsystem.
func Component(v string) zap.Field { return zap.String("component", v) }

func UserID(v int64) zap.Field { return zap.Int64("user_id", v) }

// Email should be given a masked address outside debug logs.
func Email(v string) zap.Field { return zap.String("email", v) }

func Kind(v string) zap.Field { return zap.String("kind", v) }

func Count(v int) zap.Field { return zap.Int("count", v) }

func Err(err error) zap.Field { return zap.Error(err) }
