package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Provider selects the property payload profile (realestateapi, propertycard).
	Provider string `mapstructure:"provider" default:"realestateapi"`
	// ShapeAddressField is the DBF attribute holding the address of shapefile places.
	ShapeAddressField string `mapstructure:"shape_address_field" default:"ADDRESS"`
	// ShapeNameField is the DBF attribute holding the name of shapefile places.
	ShapeNameField string `mapstructure:"shape_name_field" default:"NAME"`
}

const (
	// ProviderRealEstateAPI decodes nested address objects with camelCase owner fields.
	ProviderRealEstateAPI = "realestateapi"
	// ProviderPropertyCard decodes flat records with [lng, lat] coordinates.
	ProviderPropertyCard = "propertycard"
)

// IsValidProvider checks if the configured payload profile is known.
func (c Config) IsValidProvider() bool {
	switch c.Provider {
	case ProviderRealEstateAPI, ProviderPropertyCard:
		return true
	default:
		return false
	}
}
