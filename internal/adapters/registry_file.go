package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"safetyhub/internal/types"
)

type RegistryFileAdapter struct{}

func NewRegistryFileAdapter() RegistryFileAdapter {
	return RegistryFileAdapter{}
}

func (a RegistryFileAdapter) LoadRegistry(path string) (types.RegistryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RegistryConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("registry file not found").
			WithCause(err)
	}
	var cfg types.RegistryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.RegistryConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse registry yaml").
			WithCause(err)
	}
	return cfg, nil
}
