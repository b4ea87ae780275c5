package provider

import (
	"fmt"
	"strings"
)

// ValidateConfigFields checks a credential map against a provider's
// required fields. The error enumerates every missing field together
// with the environment variable it is normally read from, so a broken
// deployment is fixable from the message alone.
func ValidateConfigFields(providerName string, config map[string]string, fields []ConfigField) error {
	var missing []string
	for _, field := range fields {
		if !field.Required {
			continue
		}
		if strings.TrimSpace(config[field.Key]) == "" {
			missing = append(missing, fmt.Sprintf("%s (%s)", field.Key, field.EnvVar))
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return fmt.Errorf("%s provider configuration is missing required fields: %s",
		providerName, strings.Join(missing, ", "))
}
