package validate

import (
	"fmt"
	"net/url"
	"unicode/utf8"

	"github.com/go-openapi/strfmt"

	"github.com/FluffyKas/cooking-helper/server/internal/model"
)

const (
	MaxNameLength    = 200
	MaxCuisineLength = 100
	MaxIngredients   = 100
	MaxPasswordBytes = 72
)

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !strfmt.IsEmail(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if utf8.RuneCountInString(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// ImageURL accepts an empty value or an absolute http(s) URI.
func ImageURL(v string) error {
	if v == "" {
		return nil
	}
	if !strfmt.Default.Validates("uri", v) {
		return fmt.Errorf("image must be a valid URL")
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("image must be an http(s) URL")
	}
	return nil
}

func positive(field string, v *int) error {
	if v != nil && *v < 1 {
		return fmt.Errorf("%s must be at least 1", field)
	}
	return nil
}

func nonNegative(field string, v *int) error {
	if v != nil && *v < 0 {
		return fmt.Errorf("%s must not be negative", field)
	}
	return nil
}

// -------- Request specific helpers ----------

// Meal validates a meal payload for create or full replace. Servings of zero
// means "unset" and is defaulted by the service.
func Meal(m *model.Meal) error {
	if err := NonEmpty("name", m.Name); err != nil {
		return err
	}
	if err := MaxLen("name", m.Name, MaxNameLength); err != nil {
		return err
	}
	if !m.Complexity.Valid() {
		return fmt.Errorf("complexity must be one of easy, medium, hard")
	}
	if err := NonEmpty("cuisine", m.Cuisine); err != nil {
		return err
	}
	if err := MaxLen("cuisine", m.Cuisine, MaxCuisineLength); err != nil {
		return err
	}
	if m.Spiciness < 0 || m.Spiciness > model.MaxSpiciness {
		return fmt.Errorf("spiciness must be between 0 and %d", model.MaxSpiciness)
	}
	if m.Servings < 0 {
		return fmt.Errorf("servings must be at least 1")
	}
	if err := positive("prepTime", m.PrepTime); err != nil {
		return err
	}
	if len(m.Ingredients) > MaxIngredients {
		return fmt.Errorf("at most %d ingredients allowed", MaxIngredients)
	}
	if err := ImageURL(m.Image); err != nil {
		return err
	}
	for field, v := range map[string]*int{"calories": m.Calories, "protein": m.Protein, "carbs": m.Carbs, "fat": m.Fat} {
		if err := nonNegative(field, v); err != nil {
			return err
		}
	}
	return nil
}

// Credentials validates signup input.
func Credentials(email, password string, minPassword int) error {
	if err := Email(email); err != nil {
		return err
	}
	if len(password) < minPassword {
		return fmt.Errorf("password must be at least %d characters", minPassword)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password exceeds %d bytes", MaxPasswordBytes)
	}
	return nil
}
