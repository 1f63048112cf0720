package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("priority", validatePriority); err != nil {
		panic(fmt.Sprintf("failed to register priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("theme", validateTheme); err != nil {
		panic(fmt.Sprintf("failed to register theme validator: %v", err))
	}
	if err := Validate.RegisterValidation("goal_type", validateGoalType); err != nil {
		panic(fmt.Sprintf("failed to register goal_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("transaction_type", validateTransactionType); err != nil {
		panic(fmt.Sprintf("failed to register transaction_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("transaction_category", validateTransactionCategory); err != nil {
		panic(fmt.Sprintf("failed to register transaction_category validator: %v", err))
	}
	if err := Validate.RegisterValidation("energy_level", validateEnergyLevel); err != nil {
		panic(fmt.Sprintf("failed to register energy_level validator: %v", err))
	}
}

func validatePriority(fl validator.FieldLevel) bool {
	switch models.Priority(fl.Field().String()) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	default:
		return false
	}
}

func validateTheme(fl validator.FieldLevel) bool {
	switch models.Theme(fl.Field().String()) {
	case models.ThemeDark, models.ThemeLight, models.ThemeSystem:
		return true
	default:
		return false
	}
}

func validateGoalType(fl validator.FieldLevel) bool {
	switch models.GoalType(fl.Field().String()) {
	case models.GoalTypeMonthly, models.GoalTypeAnnual:
		return true
	default:
		return false
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionIncome, models.TransactionExpense:
		return true
	default:
		return false
	}
}

func validateTransactionCategory(fl validator.FieldLevel) bool {
	switch models.TransactionCategory(fl.Field().String()) {
	case models.CategoryHousing, models.CategoryFood, models.CategoryTransport,
		models.CategoryHealth, models.CategoryLeisure, models.CategorySalary, models.CategoryOther:
		return true
	default:
		return false
	}
}

func validateEnergyLevel(fl validator.FieldLevel) bool {
	switch models.EnergyLevel(fl.Field().String()) {
	case models.EnergyLow, models.EnergyMedium, models.EnergyHigh:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateTheme validates a Theme string value
func ValidateTheme(value string) error {
	switch models.Theme(value) {
	case models.ThemeDark, models.ThemeLight, models.ThemeSystem:
		return nil
	default:
		return fmt.Errorf("invalid theme: %s (must be 'dark', 'light', or 'system')", value)
	}
}

// ValidatePriority validates a Priority string value
func ValidatePriority(value string) error {
	switch models.Priority(value) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return nil
	default:
		return fmt.Errorf("invalid priority: %s (must be 'low', 'medium', or 'high')", value)
	}
}
