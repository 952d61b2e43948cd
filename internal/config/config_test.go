package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "valid development config",
			config: Config{Port: "8472", JWTSecret: "dev-secret", Env: "development"},
		},
		{
			name:    "missing port",
			config:  Config{JWTSecret: "dev-secret"},
			wantErr: "PORT is required",
		},
		{
			name:    "missing jwt secret",
			config:  Config{Port: "8472"},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "production default secret",
			config:  Config{Port: "8472", JWTSecret: "your-secret-key-change-in-production", Env: "production"},
			wantErr: "JWT_SECRET must be changed from the default value in production",
		},
		{
			name:    "production short secret",
			config:  Config{Port: "8472", JWTSecret: "short", Env: "production"},
			wantErr: "JWT_SECRET must be at least 32 characters in production",
		},
		{
			name:    "production weak db password",
			config:  Config{Port: "8472", JWTSecret: "a-very-long-secret-key-for-production-use", DBPassword: "password", Env: "production"},
			wantErr: "a strong DB_PASSWORD is required in production",
		},
		{
			name:    "production short admin password",
			config:  Config{Port: "8472", JWTSecret: "a-very-long-secret-key-for-production-use", DBPassword: "Str0ngPass!", AdminPassword: "short", Env: "production"},
			wantErr: "ADMIN_PASSWORD must be at least 12 characters in production",
		},
		{
			name:   "valid production config",
			config: Config{Port: "8472", JWTSecret: "a-very-long-secret-key-for-production-use", DBPassword: "Str0ngPass!", Env: "production"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
