package handlers

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"workforce-attendance/internal/models"
)

func validClassification(value string) bool {
	return value == models.ClassificationLaborer || value == models.ClassificationStaff
}

func validEmploymentStatus(value string) bool {
	return value == models.EmploymentActive || value == models.EmploymentInactive
}

// RegisterValidators adds the domain tags used in request binding.
func RegisterValidators() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	if err := engine.RegisterValidation("classification", func(fl validator.FieldLevel) bool {
		return validClassification(fl.Field().String())
	}); err != nil {
		return err
	}
	return engine.RegisterValidation("employment_status", func(fl validator.FieldLevel) bool {
		return validEmploymentStatus(fl.Field().String())
	})
}
