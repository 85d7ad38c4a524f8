package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/soma/core"
)

var (
	// custom validation tags & texts
	portalRoleTag  = "portalrole"
	portalRoleText = "unknown role"

	approvalStatusTag  = "approvalstatus"
	approvalStatusText = "unknown approval status"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(portalRoleTag, portalRoleValidation)
	core.RegisterCustomTranslation(validate, translator, portalRoleTag, portalRoleText)

	_ = validate.RegisterValidation(approvalStatusTag, approvalStatusValidation)
	core.RegisterCustomTranslation(validate, translator, approvalStatusTag, approvalStatusText)
}

func portalRoleValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, role := range AllRoles {
		if val == role {
			return true
		}
	}
	return false
}

func approvalStatusValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, status := range AllStatuses {
		if val == status {
			return true
		}
	}
	return false
}
