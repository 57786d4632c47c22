package validator

import (
	"log"

	"allsers_backend/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterGinRules installs the custom tags on gin's binding engine so the
// same rules apply to `binding:` tags during ShouldBind.
func RegisterGinRules() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomRules(v)
	}
}

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-engagement-status", validateEngagementStatus)
	mustRegister("is-urgency", validateUrgency)
	mustRegister("is-judge-status", validateJudgeStatus)
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.UserRoleUser, models.UserRoleArtisan, models.UserRoleAdmin:
		return true
	}
	return false
}

func validateEngagementStatus(fl validator.FieldLevel) bool {
	switch models.EngagementStatus(fl.Field().String()) {
	case models.EngagementStatusPending, models.EngagementStatusQuoted,
		models.EngagementStatusAccepted, models.EngagementStatusStarted,
		models.EngagementStatusCompleted, models.EngagementStatusCancelled:
		return true
	}
	return false
}

func validateUrgency(fl validator.FieldLevel) bool {
	switch models.UrgencyLevel(fl.Field().String()) {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh:
		return true
	}
	return false
}

func validateJudgeStatus(fl validator.FieldLevel) bool {
	switch models.JudgeStatus(fl.Field().String()) {
	case models.JudgeStatusAccepted, models.JudgeStatusDeclined:
		return true
	}
	return false
}
