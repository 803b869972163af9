package v1

// StudioConfig holds file-based configuration for the studio. Flags and
// environment variables take precedence over values set here.
type StudioConfig struct {
	Server ServerConfig `yaml:"server"`
	AI     AIConfig     `yaml:"ai"`
}

type ServerConfig struct {
	ListenAddr  string `yaml:"listenAddr"`
	MetricsAddr string `yaml:"metricsAddr"`
	RedisURL    string `yaml:"redisURL"`
}

type AIConfig struct {
	DialogueEndpoint string `yaml:"dialogueEndpoint"`
	DialogueModel    string `yaml:"dialogueModel"`
	GeneratorModel   string `yaml:"generatorModel"`
}
