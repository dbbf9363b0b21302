package controllers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report validation failures using json field names instead of Go
	// struct field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// parseID parses the id path parameter into a numeric key
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("the id parameter must be a positive integer")
	}
	return uint(id), nil
}

// bindingError flattens a binding failure into a single message listing
// every violated field rule
func bindingError(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		messages := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			messages = append(messages, fieldMessage(fe))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

// fieldMessage renders one field violation in a caller-friendly form
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("the %s field is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("the %s field must be one of: %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("the %s field must be at least %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("the %s field must contain at least %s item(s)", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("the %s field is invalid", fe.Field())
	}
}

// isDuplicateError reports whether err is a unique-constraint violation.
// Matching on the message keeps this working on both PostgreSQL and SQLite.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
