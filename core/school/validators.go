package school

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/soma/core"
)

var (
	examStatusTag  = "examstatus"
	examStatusText = "unknown exam status"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(examStatusTag, examStatusValidation)
	core.RegisterCustomTranslation(validate, translator, examStatusTag, examStatusText)
}

func examStatusValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, status := range AllExamStatuses {
		if val == status {
			return true
		}
	}
	return false
}
