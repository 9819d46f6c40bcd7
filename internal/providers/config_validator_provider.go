package providers

import (
	"bikeprice/internal/structures"
	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}
	if cv.conf.Upstream.MaxBackoff > 0 && cv.conf.Upstream.MaxBackoff < cv.conf.Upstream.InitialBackoff {
		return validate.Errors{"upstream.maxBackoff": {"min": "maxBackoff must not be lower than initialBackoff"}}
	}
	return nil
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}
