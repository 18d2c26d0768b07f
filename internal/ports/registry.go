package ports

import "safetyhub/internal/types"

type RegistryPort interface {
	LoadRegistry(path string) (types.RegistryConfig, error)
}
