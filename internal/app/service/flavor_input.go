package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/heladeria/flavor-catalog/internal/app/model"
)

var ErrInvalidFlavor = errors.New("invalid flavor")

// ValidationError describes the first offending field of a FlavorInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidFlavor
}

// FlavorInput carries the fields supplied by a caller. A nil field was not
// supplied and leaves the stored value untouched.
type FlavorInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Available   *bool    `json:"available"`
	ImagePath   *string  `json:"image_path"`
}

func (in FlavorInput) empty() bool {
	return in.Name == nil && in.Description == nil && in.Price == nil &&
		in.Available == nil && in.ImagePath == nil
}

// validate checks the supplied fields. requireAll demands name and price.
func (in FlavorInput) validate(requireAll bool) error {
	if requireAll {
		if in.Name == nil {
			return &ValidationError{Field: "name", Message: "name is required"}
		}
		if in.Price == nil {
			return &ValidationError{Field: "price", Message: "price is required"}
		}
	} else if in.empty() {
		return &ValidationError{Field: "body", Message: "no fields to update"}
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return &ValidationError{Field: "name", Message: "name must not be blank"}
		}
		if utf8.RuneCountInString(name) > 100 {
			return &ValidationError{Field: "name", Message: "name must be at most 100 characters"}
		}
	}
	if in.Price != nil {
		p := *in.Price
		if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
			return &ValidationError{Field: "price", Message: "price must be a positive number"}
		}
	}
	if in.ImagePath != nil && utf8.RuneCountInString(*in.ImagePath) > 200 {
		return &ValidationError{Field: "image_path", Message: "image_path must be at most 200 characters"}
	}
	return nil
}

// applyTo copies supplied fields onto flavor. Callers validate first.
func (in FlavorInput) applyTo(flavor *model.Flavor) {
	if in.Name != nil {
		flavor.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		desc := *in.Description
		flavor.Description = &desc
	}
	if in.Price != nil {
		flavor.Price = *in.Price
	}
	if in.Available != nil {
		flavor.Available = *in.Available
	}
	if in.ImagePath != nil {
		flavor.ImagePath = strings.TrimSpace(*in.ImagePath)
	}
	if flavor.ImagePath == "" {
		flavor.ImagePath = model.DefaultImagePath
	}
}

// newFlavor builds the row for a create; available defaults to true.
func (in FlavorInput) newFlavor() *model.Flavor {
	flavor := &model.Flavor{Available: true, ImagePath: model.DefaultImagePath}
	in.applyTo(flavor)
	return flavor
}
