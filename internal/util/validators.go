package util

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// ValidatePhone 验证电话号码格式
func ValidatePhone(fl validator.FieldLevel) bool {
	phone, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return phonePattern.MatchString(phone)
}

// PhoneValid 供 validator 标签之外的调用方使用
func PhoneValid(phone string) bool {
	return phonePattern.MatchString(phone)
}
