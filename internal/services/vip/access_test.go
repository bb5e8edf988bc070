package vip

import (
	"context"
	"testing"

	"relax_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanPurchaseEmployeeTier(t *testing.T) {
	tests := []struct {
		name    string
		linked  bool
		manages bool
		failed  bool
		want    bool
	}{
		{name: "linked user", linked: true, want: true},
		{name: "manager of employer", manages: true, want: true},
		{name: "stranger", want: false},
		{name: "lookup error denies", linked: true, failed: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access := NewAccess(&fakeDirectoryRepo{
				linkedUser:   tt.linked,
				managesEmpl:  tt.manages,
				lookupFailed: tt.failed,
			})
			got := access.CanPurchase(context.Background(), "user-1", models.VIPTierEmployee, "entity-1")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanPurchaseEstablishmentTier(t *testing.T) {
	access := NewAccess(&fakeDirectoryRepo{managesEst: true})
	assert.True(t, access.CanPurchase(context.Background(), "user-1", models.VIPTierEstablishment, "est-1"))

	access = NewAccess(&fakeDirectoryRepo{})
	assert.False(t, access.CanPurchase(context.Background(), "user-1", models.VIPTierEstablishment, "est-1"))
}

func TestCanPurchaseUnknownTier(t *testing.T) {
	access := NewAccess(&fakeDirectoryRepo{linkedUser: true, managesEst: true})
	assert.False(t, access.CanPurchase(context.Background(), "user-1", "banner", "entity-1"))
}

func TestCanCancel(t *testing.T) {
	access := NewAccess(&fakeDirectoryRepo{})
	sub := &models.VIPSubscription{OwnerUserID: "owner-1"}

	assert.True(t, access.CanCancel("owner-1", models.UserRoleUser, sub))
	assert.True(t, access.CanCancel("someone-else", models.UserRoleAdmin, sub))
	assert.False(t, access.CanCancel("someone-else", models.UserRoleUser, sub))
	assert.False(t, access.CanCancel("owner-1", models.UserRoleUser, nil))
}

func TestVerifyAndRejectAreAdminOnly(t *testing.T) {
	access := NewAccess(&fakeDirectoryRepo{})

	assert.True(t, access.CanVerify(models.UserRoleAdmin))
	assert.False(t, access.CanVerify(models.UserRoleUser))
	assert.True(t, access.CanReject(models.UserRoleAdmin))
	assert.False(t, access.CanReject(models.UserRoleUser))
}
