package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pageza/recipeshare/backend/internal/models"
)

var (
	cookTimePattern = regexp.MustCompile(`(?i)^\d+\s*(mins?|minutes?|hrs?|hours?)$`)
	ratingPattern   = regexp.MustCompile(`^[0-5](\.\d)?$`)
	rgbHexPattern   = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// validate is shared by every service; validator caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validator: %v", tag, err))
		}
	}
	must("recipecategory", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	must("difficulty", func(fl validator.FieldLevel) bool {
		return models.Difficulty(fl.Field().String()).Valid()
	})
	must("cooktime", func(fl validator.FieldLevel) bool {
		return cookTimePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	must("rating", func(fl validator.FieldLevel) bool {
		return validRating(fl.Field().String())
	})
	must("rgbhex", func(fl validator.FieldLevel) bool {
		return rgbHexPattern.MatchString(fl.Field().String())
	})
	return v
}

func validRating(s string) bool {
	if !ratingPattern.MatchString(s) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f >= 0 && f <= 5.0
}

// validateStruct runs the tag rules on v and converts failures into a
// ValidationFailed error keyed by JSON field name.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Kind: KindValidationFailed, Message: "invalid input", Err: err}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return validationFailed("validation failed", fields)
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("must have at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "recipecategory":
		return fmt.Sprintf("must be one of %s", joinCategories())
	case "difficulty":
		return "must be one of easy, medium, hard"
	case "cooktime":
		return "must look like \"30 mins\" or \"2 hours\""
	case "rating":
		return "must be a decimal between 0.0 and 5.0"
	case "rgbhex":
		return "must be a hex color like #FFAA00"
	default:
		return "is invalid"
	}
}

func joinCategories() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// normalizeTags trims, lowercases and de-duplicates tags, dropping blanks.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
