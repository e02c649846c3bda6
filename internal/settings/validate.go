package settings

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ngmaloney/signage-terminal/internal/models"
	"github.com/ngmaloney/signage-terminal/internal/overlay"
)

// Validator checks settings before they are saved or applied
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the settings rules registered
func NewValidator() *Validator {
	v := validator.New()

	// Report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := overlay.ParseClock(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Validate returns an error wrapping ErrInvalid or ErrPoolFull
func (v *Validator) Validate(s models.Settings) error {
	if err := v.validate.Struct(s); err != nil {
		return formatError(err)
	}

	if n := s.PoolSize(); n > models.MaxPoolSize {
		return fmt.Errorf("%w: %d cards, max %d", ErrPoolFull, n, models.MaxPoolSize)
	}

	if err := uniqueIDs("welcome_cards", s.WelcomeCards, func(c models.WelcomeCard) string { return c.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("custom_news", s.CustomNews, func(n models.NewsItem) string { return n.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("internal_panels", s.InternalPanels, func(p models.InternalPanel) string { return p.ID }); err != nil {
		return err
	}
	return uniqueIDs("time_overlays", s.TimeOverlays, func(w models.TimeWindow) string { return w.ID })
}

func uniqueIDs[T any](field string, items []T, id func(T) string) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		key := id(it)
		if seen[key] {
			return fmt.Errorf("%w: %s: duplicate id %q", ErrInvalid, field, key)
		}
		seen[key] = true
	}
	return nil
}

func formatError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Settings.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "clock":
			msgs = append(msgs, fmt.Sprintf("%s must be HH:mm, got %q", field, fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
