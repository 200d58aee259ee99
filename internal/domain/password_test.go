package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"short1", ErrPasswordTooShort},
		{"Ab1", ErrPasswordTooShort},
		{"lowercase1", ErrPasswordMissingUppercase},
		{"UPPERCASE1", ErrPasswordMissingLowercase},
		{"NoDigitsHere", ErrPasswordMissingDigit},
		{"Valid1234", nil},
		{"Test1234!", nil},
		{"Ñandú1234a", ErrPasswordMissingUppercase},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := CheckPasswordStrength(tt.password)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrWeakPassword)
		})
	}
}
