package render

import (
	"github.com/pkg/errors"
)

// Ошибки инициализации. Все фатальны на этапе настройки.
var (
	ErrContextUnavailable = errors.New("rendering context unavailable")
	ErrShaderCompile      = errors.New("shader compile failed")
	ErrBufferCreate       = errors.New("buffer creation failed")
	ErrResourceLookup     = errors.New("resource lookup failed")
)

// IsSetupError сообщает, относится ли err к ошибкам инициализации
func IsSetupError(err error) bool {
	switch errors.Cause(err) {
	case ErrContextUnavailable, ErrShaderCompile, ErrBufferCreate, ErrResourceLookup:
		return true
	default:
		return false
	}
}
