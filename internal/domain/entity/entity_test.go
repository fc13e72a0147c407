package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{150, 100},
		{-20, 0},
		{0, 0},
		{100, 100},
		{45, 45},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampProgress(tt.in), "ClampProgress(%d)", tt.in)
	}
}

func TestKYCDocument_ExpiringSoon(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { v := now.Add(d); return &v }
	day := 24 * time.Hour

	tests := []struct {
		name   string
		expiry *time.Time
		want   bool
	}{
		{"in ten days", at(10 * day), true},
		{"exactly thirty days", at(30 * day), true},
		{"in forty-five days", at(45 * day), false},
		{"already expired", at(-5 * day), false},
		{"expires now", at(0), false},
		{"no expiry", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KYCDocument{ExpiryDate: tt.expiry}.ExpiringSoon(now))
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := error(NewValidationError("investor_id", "investor not found"))
	require.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"investor_id": "investor not found"}, verr.Details())
	assert.Contains(t, err.Error(), "investor_id")

	multi := &ValidationError{Errors: []FieldError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}}
	assert.Equal(t, "validation: 2 errors", multi.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := NotFoundError("kyc review", "kyc-9")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `"kyc-9"`)
}

func TestDefaultPermissions(t *testing.T) {
	t.Parallel()

	admin := DefaultPermissions(RoleAdmin)
	for feature, granted := range admin {
		assert.True(t, granted, feature)
	}
	assert.False(t, DefaultPermissions(RoleManager)[PermSettings])
	assert.True(t, DefaultPermissions(RoleInvestor)[PermDocuments])
	assert.False(t, DefaultPermissions(RoleInvestor)[PermUsers])
	assert.Len(t, DefaultPermissions(RoleViewer), len(admin))
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	exp := time.Now()
	r := KYCReview{ID: "kyc-1", Documents: []KYCDocument{{ID: "d1", ExpiryDate: &exp}}}
	c := r.Clone()
	c.Documents[0].ID = "changed"
	*c.Documents[0].ExpiryDate = exp.Add(time.Hour)
	assert.Equal(t, "d1", r.Documents[0].ID)
	assert.True(t, r.Documents[0].ExpiryDate.Equal(exp))

	u := User{ID: "u", Permissions: Permissions{PermKYC: true}}
	uc := u.Clone()
	uc.Permissions[PermKYC] = false
	assert.True(t, u.Permissions[PermKYC])

	cm := Communication{Recipients: []string{"a"}, Metadata: CommunicationMetadata{ReadBy: []string{"a"}, DeliveryStatus: map[string]string{"a": DeliverySent}}}
	cc := cm.Clone()
	cc.Recipients[0] = "b"
	cc.Metadata.ReadBy[0] = "b"
	cc.Metadata.DeliveryStatus["a"] = DeliveryFailed
	assert.Equal(t, "a", cm.Recipients[0])
	assert.Equal(t, "a", cm.Metadata.ReadBy[0])
	assert.Equal(t, DeliverySent, cm.Metadata.DeliveryStatus["a"])
}
