package vip

import (
	"context"

	"relax_backend/internal/logger"
	"relax_backend/internal/models"
	"relax_backend/internal/repositories"
)

// Access решает, разрешена ли пользователю операция над VIP-подпиской.
// Любая ошибка чтения прав трактуется как отказ (fail-closed).
type Access struct {
	directory repositories.DirectoryRepository
}

func NewAccess(directory repositories.DirectoryRepository) *Access {
	return &Access{directory: directory}
}

// CanPurchase проверяет право пользователя оплачивать VIP для сущности:
//   - employee_profile: владелец анкеты либо менеджер заведения,
//     в котором анкета состоит;
//   - establishment: owner или manager заведения.
func (a *Access) CanPurchase(ctx context.Context, userID string, tier models.VIPTier, entityID string) bool {
	switch tier {
	case models.VIPTierEmployee:
		linked, err := a.directory.IsEmployeeLinkedUser(userID, entityID)
		if err != nil {
			logger.CtxWarn(ctx, "access check failed, denying",
				"user_id", userID, "entity_id", entityID, "error", err)
			return false
		}
		if linked {
			return true
		}
		manages, err := a.directory.ManagesEmployerOf(userID, entityID)
		if err != nil {
			logger.CtxWarn(ctx, "access check failed, denying",
				"user_id", userID, "entity_id", entityID, "error", err)
			return false
		}
		return manages

	case models.VIPTierEstablishment:
		ok, err := a.directory.HasEstablishmentRole(userID, entityID)
		if err != nil {
			logger.CtxWarn(ctx, "access check failed, denying",
				"user_id", userID, "entity_id", entityID, "error", err)
			return false
		}
		return ok
	}

	return false
}

// CanCancel: владелец подписки либо админ
func (a *Access) CanCancel(userID string, role models.UserRole, sub *models.VIPSubscription) bool {
	if role == models.UserRoleAdmin {
		return true
	}
	return sub != nil && sub.OwnerUserID == userID
}

// CanVerify: подтверждение оплаты доступно только админам
func (a *Access) CanVerify(role models.UserRole) bool {
	return role == models.UserRoleAdmin
}

// CanReject: отклонение оплаты доступно только админам
func (a *Access) CanReject(role models.UserRole) bool {
	return role == models.UserRoleAdmin
}
