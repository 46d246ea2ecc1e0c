package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
		errMsg  string
	}{
		{
			name: "numeric stop id",
			id:   "14225",
		},
		{
			name: "vehicle id",
			id:   "504_3",
		},
		{
			name:    "empty ID",
			id:      "",
			wantErr: true,
			errMsg:  "id cannot be empty",
		},
		{
			name:    "ID too long",
			id:      strings.Repeat("a", 101),
			wantErr: true,
			errMsg:  "id too long (max 100 characters)",
		},
		{
			name:    "ID with invalid characters",
			id:      "14225<script>",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with path traversal",
			id:      "../../../etc/passwd",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRouteNumber(t *testing.T) {
	assert.NoError(t, ValidateRouteNumber("504"))
	assert.NoError(t, ValidateRouteNumber("52A"))
	assert.Error(t, ValidateRouteNumber(""))
	assert.Error(t, ValidateRouteNumber("504-King"))
	assert.Error(t, ValidateRouteNumber("123456789"))
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateLatitude(43.65))
	assert.Error(t, ValidateLatitude(90.1))
	assert.NoError(t, ValidateLongitude(-79.38))
	assert.Error(t, ValidateLongitude(-180.5))
}

func TestNormalizeStopInput(t *testing.T) {
	id, err := NormalizeStopInput("  14 225 ")
	require.NoError(t, err)
	assert.Equal(t, "14225", id)

	id, err = NormalizeStopInput("<b>8812</b>")
	require.NoError(t, err)
	assert.Equal(t, "8812", id)

	_, err = NormalizeStopInput("   ")
	assert.Error(t, err)

	_, err = NormalizeStopInput("stop #5")
	assert.Error(t, err)
}
