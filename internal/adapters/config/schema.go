package config

// File is the structure of lucifer.yaml. Durations are Go duration strings.
type File struct {
	Port         *int       `yaml:"port"`
	Directory    string     `yaml:"directory"`
	Self         []string   `yaml:"self"`
	Slow         string     `yaml:"slow"`
	Watch        *bool      `yaml:"watch"`
	IdleTimeout  string     `yaml:"idle_timeout"`
	HistorySize  *int       `yaml:"history_size"`
	TestPatterns []string   `yaml:"test_patterns"`
	Setup        []string   `yaml:"setup"`
	Engine       *EngineDTO `yaml:"engine"`
}

// EngineDTO is the engine section of lucifer.yaml.
type EngineDTO struct {
	Command     []string          `yaml:"command"`
	Timeout     string            `yaml:"timeout"`
	Environment map[string]string `yaml:"environment"`
}
