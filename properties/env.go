package properties

import (
	"fmt"
	"maps"
	"slices"

	"github.com/caarlos0/env/v11"
)

// EnvSources locates configuration through the environment:
//
//	GRAPHCACHE_PROPERTIES=base.properties,site.yaml
//	GRAPHCACHE_OVERRIDES=cache.backend=redis;cache.redis.addrs=r1:6379,r2:6379
type EnvSources struct {
	Files     []string          `env:"GRAPHCACHE_PROPERTIES" envSeparator:","`
	Overrides map[string]string `env:"GRAPHCACHE_OVERRIDES" envSeparator:";" envKeyValSeparator:"="`
}

// ParseEnv loads EnvSources from environment variables.
func ParseEnv() (EnvSources, error) {
	var src EnvSources
	if err := env.Parse(&src); err != nil {
		return EnvSources{}, fmt.Errorf("parse env: %w", err)
	}
	return src, nil
}

// Load merges Files in order, then applies Overrides.
func (s EnvSources) Load() (*Properties, error) {
	p, err := LoadFiles(s.Files...)
	if err != nil {
		return nil, err
	}
	for _, k := range slices.Sorted(maps.Keys(s.Overrides)) {
		p.Set(k, s.Overrides[k])
	}
	return p, nil
}
