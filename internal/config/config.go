// Package config loads service settings from a yaml file with AI_-prefixed
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Presence of OpenAIKey toggles the external embedding and generation
	// backends; without it the deterministic fallbacks run.
	OpenAIKey      string `yaml:"openai_key"`
	OpenAIBase     string `yaml:"openai_base"`
	EmbeddingModel string `yaml:"embedding_model"`
	InferenceModel string `yaml:"inference_model"`

	// Presence of VectorDSN selects the Postgres store; otherwise
	// ChromemPath selects the local persistent store; otherwise in-memory.
	VectorDSN   string `yaml:"vector_dsn"`
	VectorTable string `yaml:"vector_table"`
	ChromemPath string `yaml:"chromem_path"`

	// EmbedDim applies only when the dimension probe fails.
	EmbedDim int `yaml:"embed_dim"`
	TopK     int `yaml:"top_k"`

	SourceGlob   string `yaml:"source_glob"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`

	ListenAddr string `yaml:"listen_addr"`
	DBDebug    bool   `yaml:"db_debug"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		VectorTable:  "ai_chunks",
		EmbedDim:     768,
		TopK:         4,
		ChunkSize:    1000,
		ChunkOverlap: 200,
		ListenAddr:   ":8000",
	}
}

// Load reads the yaml file at path over the defaults and then applies
// environment overrides. A missing file is tolerated; defaults and
// environment still apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.OpenAIKey, "AI_OPENAI_API_KEY")
	setString(&c.OpenAIBase, "AI_OPENAI_BASE")
	setString(&c.EmbeddingModel, "AI_EMBEDDING_MODEL")
	setString(&c.InferenceModel, "AI_INFERENCE_MODEL")
	setString(&c.VectorDSN, "AI_VECTOR_DSN")
	setString(&c.VectorTable, "AI_VECTOR_TABLE")
	setString(&c.ChromemPath, "AI_CHROMEM_PATH")
	setInt(&c.EmbedDim, "AI_EMBED_DIM")
	setInt(&c.TopK, "AI_TOP_K")
	setString(&c.SourceGlob, "AI_SOURCE_GLOB")
	setInt(&c.ChunkSize, "AI_CHUNK_SIZE")
	setInt(&c.ChunkOverlap, "AI_CHUNK_OVERLAP")
	setString(&c.ListenAddr, "AI_LISTEN_ADDR")
	setBool(&c.DBDebug, "AI_DB_DEBUG")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
