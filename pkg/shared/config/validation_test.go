package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLoggerConfig(t *testing.T) {
	var tests = []struct {
		output  string
		wantErr bool
	}{
		{output: ""},
		{output: "stdout"},
		{output: "Stderr"},
		{output: "/var/log/cpd.log", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			err := ValidateLoggerConfig(&Logger{Output: tt.output})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
	assert.Error(t, ValidateLoggerConfig(nil))
}
