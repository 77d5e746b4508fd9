package server_test

import (
	"testing"

	"parcel-watch/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     bool
	}{
		{"RealEstateAPI", server.ProviderRealEstateAPI, true},
		{"PropertyCard", server.ProviderPropertyCard, true},
		{"Invalid", "zillow", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Provider: tt.provider}
			assert.Equal(t, tt.want, c.IsValidProvider())
		})
	}
}
