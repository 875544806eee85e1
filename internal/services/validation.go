package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationErrorFrom converts a validator error into a ValidationError with
// human-readable per-field messages. Non-validator errors pass through.
func validationErrorFrom(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fieldErrorMessage(fe))
	}
	return &ValidationError{Messages: messages}
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	// Dive validations on the tag list report fields like "Tags[1]".
	if strings.HasPrefix(field, "Tags") {
		if fe.Tag() == "unique" {
			return "Tags must not contain duplicates"
		}
		return fmt.Sprintf("'%v' is not a valid tag", fe.Value())
	}

	switch field {
	case "Name":
		if fe.Tag() == "required" {
			return "Cafe name is required"
		}
		return "Name cannot exceed 100 characters"
	case "Location":
		if fe.Tag() == "required" {
			return "Location is required"
		}
		return "Location cannot exceed 200 characters"
	case "Notes":
		return "Notes cannot exceed 1000 characters"
	case "Rating":
		return "Rating must be between 1 and 5"
	case "Status":
		return "Status must be either visited or wishlist"
	case "Email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Email is invalid"
	case "Password":
		if fe.Tag() == "required" {
			return "Password is required"
		}
		return "Password must be at least 6 characters"
	case "Username":
		if fe.Tag() == "required" {
			return "Username is required"
		}
		return "Username must be between 3 and 30 characters"
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", field, fe.Tag())
}
