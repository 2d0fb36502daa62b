package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/coffeecommand/backend/internal/domain/ledger"
)

// RegisterValidators wires domain formats into gin's binding validator so
// request structs can declare them in binding tags.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// business_date: YYYY-MM-DD business day key
	_ = v.RegisterValidation("business_date", func(fl validator.FieldLevel) bool {
		_, err := ledger.ParseBusinessDate(fl.Field().String())
		return err == nil
	})
}
