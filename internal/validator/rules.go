package validator

import (
	"log"

	"relax_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные функции валидации
// в переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации правила - ошибка времени запуска,
			// приложение не должно стартовать
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-vip-tier': тип VIP-размещения валиден
	mustRegister("is-vip-tier", validateVIPTier)

	// 'is-payment-method': способ оплаты валиден
	mustRegister("is-payment-method", validatePaymentMethod)

	// 'is-user-role': роль пользователя валидна
	mustRegister("is-user-role", validateUserRole)
}

// --- Функции валидации ---

func validateVIPTier(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения проверяет 'required'
	}
	return models.ValidVIPTier(models.VIPTier(value))
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidPaymentMethod(models.PaymentMethod(value))
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserRole(value) {
	case models.UserRoleUser, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}
