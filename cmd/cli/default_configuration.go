package cli

import _ "embed"

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration exposes the baked-in watcher defaults together
// with their configuration format. Callers receive a copy so the embedded
// bytes stay immutable.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	configurationCopy := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(configurationCopy, embeddedDefaultConfigurationContent)
	return configurationCopy, configurationTypeConstant
}
