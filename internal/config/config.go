package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v2"

	"hpackcodec/internal/header"
	"hpackcodec/internal/hpack"
)

type CodecConfig struct {
	// MaxDynamicTableSize bounds both tables; 0 disables dynamic
	// indexing entirely.
	MaxDynamicTableSize *uint32 `yaml:"max_dynamic_table_size"`

	// MaxHeadersLength caps the decoded size of one header block.
	MaxHeadersLength uint32 `yaml:"max_headers_length"`

	// ValueEncoding is "latin1" (default) or "utf8".
	ValueEncoding string `yaml:"value_encoding"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	Codec  CodecConfig  `yaml:"codec"`
	Server ServerConfig `yaml:"server"`
	Logger LoggerConfig `yaml:"logger"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	size := uint32(hpack.DefaultMaxDynamicTableSize)
	return &Config{
		Codec: CodecConfig{
			MaxDynamicTableSize: &size,
			MaxHeadersLength:    hpack.DefaultMaxHeadersLength,
			ValueEncoding:       "latin1",
		},
		Server: ServerConfig{Port: 8080},
		Logger: LoggerConfig{Level: "INFO"},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server port out of range")
	}
	if c.Codec.MaxHeadersLength == 0 {
		return errors.New("codec max_headers_length is not set")
	}
	if _, err := header.ParseEncoding(c.Codec.ValueEncoding); err != nil {
		return err
	}
	return nil
}

// TableSize returns the configured dynamic table bound, defaulting to
// hpack.DefaultMaxDynamicTableSize when the key is absent (so an
// explicit 0 still disables the table).
func (c *Config) TableSize() uint32 {
	if c.Codec.MaxDynamicTableSize == nil {
		return hpack.DefaultMaxDynamicTableSize
	}
	return *c.Codec.MaxDynamicTableSize
}

// Encoding returns the configured value encoding. Validate has already
// rejected unknown names.
func (c *Config) Encoding() header.Encoding {
	enc, _ := header.ParseEncoding(c.Codec.ValueEncoding)
	return enc
}

func LoadConfig(configFileName string) (*Config, error) {
	data, err := os.ReadFile(configFileName)
	if err != nil {
		return nil, err
	}

	config := Default()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
