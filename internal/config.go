package internal

type Config struct {
	Host        string
	Port        int
	DialRetries int
}

const DEFAULT_HOST = "127.0.0.1"
const DEFAULT_PORT = 7401

func DefaultConfig() *Config {
	return &Config{
		Host: DEFAULT_HOST,
		Port: DEFAULT_PORT,
	}
}
