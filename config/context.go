package config

type Context struct {
	Modules  []ModuleI
	Registry *Registry
	Config   *Config
}

// NewContext returns a context whose registry holds the implementations of `modules`
func NewContext(modules []ModuleI, config *Config) *Context {
	registry := NewRegistry()
	for _, m := range modules {
		m.RegisterInterfaces(registry)
	}
	return &Context{
		Modules:  modules,
		Registry: registry,
		Config:   config,
	}
}
