package validate

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator 基于go-playground/validator实现echo.Validator接口
type CustomValidator struct {
	validator *validator.Validate
}

// New 创建校验器
func New() echo.Validator {
	return &CustomValidator{validator: validator.New()}
}

// Validate 实现echo.Validator接口
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
