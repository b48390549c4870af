package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		want     string
	}{
		{"valid", "Secreta#1", "Secreta#1", ""},
		{"too short", "Se#1", "Se#1", "at least 8 characters"},
		{"no number", "Secreta#x", "Secreta#x", "must contain a number"},
		{"no capital", "secreta#1", "secreta#1", "must contain a capital letter"},
		{"no special", "Secreta11", "Secreta11", "must contain a special character"},
		{"mismatch", "Secreta#1", "Secreta#2", "must be equal to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(tt.password, tt.confirm)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	var cur *User
	guard := RequireRole(func() *User { return cur }, RoleEditor, RoleAdmin)

	assert.ErrorIs(t, guard(), ErrNoSession)

	cur = &User{UserName: "luis", Role: RoleReader}
	assert.EqualError(t, guard(), "user luis has role reader; this action requires editor or admin")

	cur = &User{UserName: "ana", Role: RoleAdmin}
	assert.NoError(t, guard())
}
