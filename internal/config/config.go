package driver_config

import (
	"strings"

	"gitlab.com/pietroski-software-company/golang/devex/env"
)

type EngineKind string

const (
	LocalEngineKind  EngineKind = "LOCAL"
	RemoteEngineKind EngineKind = "REMOTE"
)

func ToEngineKind(e string) EngineKind {
	return EngineKind(strings.ToUpper(e))
}

func (e EngineKind) String() string {
	return string(e)
}

type (
	Config struct {
		Driver *Driver `validation:"required"`
	}

	Driver struct {
		Engine *Engine `validation:"required"`
		Local  *Local
		Remote *Remote
		Server *Server
	}

	Engine struct {
		Kind string `env:"LTNG_DRIVER_ENGINE" validation:"required"`
	}

	Local struct {
		Path        string `env:"LTNG_DRIVER_LOCAL_PATH"`
		InMemory    bool   `env:"LTNG_DRIVER_LOCAL_IN_MEMORY"`
		SilentStore bool   `env:"LTNG_DRIVER_LOCAL_SILENT_STORE"`
		// Workers bounds the goroutines applying background UDFs.
		Workers int `env:"LTNG_DRIVER_LOCAL_WORKERS"`
	}

	Remote struct {
		Address string `env:"LTNG_DRIVER_REMOTE_ADDRESS"`
	}

	Server struct {
		Network   string `env:"LTNG_DRIVER_SERVER_NETWORK"`
		Port      string `env:"LTNG_DRIVER_SERVER_PORT"`
		PprofPort string `env:"LTNG_DRIVER_PPROF_PORT"`
	}
)

const (
	defaultLocalPath = ".db/ltng-driver/local"
	defaultWorkers   = 8
	defaultNetwork   = "tcp"
	defaultPort      = "50060"
	defaultPprofPort = "7001"
)

// Load reads the configuration from the environment and fills the
// optional sections with their defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Load(cfg); err != nil {
		return nil, err
	}

	cfg.Driver.applyDefaults()

	return cfg, nil
}

// Default returns a configuration for an in-memory local engine.
func Default() *Config {
	cfg := &Config{
		Driver: &Driver{
			Engine: &Engine{
				Kind: LocalEngineKind.String(),
			},
			Local: &Local{
				InMemory: true,
			},
		},
	}
	cfg.Driver.applyDefaults()

	return cfg
}

func (d *Driver) EngineKind() EngineKind {
	return ToEngineKind(d.Engine.Kind)
}

func (d *Driver) applyDefaults() {
	if d.Local == nil {
		d.Local = &Local{}
	}
	if d.Local.Path == "" && !d.Local.InMemory {
		d.Local.Path = defaultLocalPath
	}
	if d.Local.Workers <= 0 {
		d.Local.Workers = defaultWorkers
	}

	if d.Remote == nil {
		d.Remote = &Remote{}
	}

	if d.Server == nil {
		d.Server = &Server{}
	}
	if d.Server.Network == "" {
		d.Server.Network = defaultNetwork
	}
	if d.Server.Port == "" {
		d.Server.Port = defaultPort
	}
	if d.Server.PprofPort == "" {
		d.Server.PprofPort = defaultPprofPort
	}
}
