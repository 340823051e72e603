/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the structgen commands: configuration loading, logging
setup and translation of viper settings into inference and pipeline options.
*/

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/kleascm/structgen/pkg/inference"
	"github.com/kleascm/structgen/pkg/logging"
	"github.com/kleascm/structgen/pkg/pipeline"
	"github.com/kleascm/structgen/pkg/render"
	"github.com/kleascm/structgen/pkg/source"
	"github.com/kleascm/structgen/pkg/value"
	"github.com/spf13/viper"
)

// primitiveKeys maps config keys onto the scalar kinds they override
var primitiveKeys = map[string]value.Kind{
	"primitives.string": value.String,
	"primitives.bool":   value.Bool,
	"primitives.int":    value.Int,
	"primitives.float":  value.Float,
}

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("STRUCTGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return nil
}

// SetupLogging builds the logger described by the log_* settings
func SetupLogging(console io.Writer) (*logging.Logger, error) {
	cfg := logging.DefaultConfig()
	if level := viper.GetString("log_level"); level != "" {
		cfg.Level = logging.LogLevel(level)
	}
	if format := viper.GetString("log_format"); format != "" {
		cfg.Format = logging.LogFormat(format)
	}
	cfg.OutputDir = viper.GetString("log_dir")

	logger, err := logging.NewLogger(cfg, console)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// InferenceConfig returns the default inference config with primitive names and
// nesting depth overridden from configuration
func InferenceConfig() (inference.Config, error) {
	cfg := inference.DefaultConfig()
	for key, kind := range primitiveKeys {
		if name := viper.GetString(key); name != "" {
			cfg.PrimitiveTable[kind] = name
		}
	}
	if viper.IsSet("max_array_nesting") {
		cfg.MaxArrayNesting = viper.GetInt("max_array_nesting")
	}
	if err := cfg.Validate(); err != nil {
		return inference.Config{}, err
	}
	return cfg, nil
}

// PipelineOptions assembles generation options from configuration
func PipelineOptions() (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	cfg, err := InferenceConfig()
	if err != nil {
		return opts, err
	}
	opts.Inference = cfg

	order, ok := render.ParseOrder(viper.GetString("order"))
	if !ok {
		return opts, fmt.Errorf("unsupported order %q (want deps or root)", viper.GetString("order"))
	}
	opts.Render = render.Options{
		OmitEmpty: viper.GetBool("omit_empty"),
		Order:     order,
		Target:    render.GoTarget(),
	}

	if pkg := viper.GetString("package"); pkg != "" {
		opts.PackageName = pkg
	}
	opts.Workers = viper.GetInt("workers")
	opts.SkipInvalid = viper.GetBool("skip_invalid")
	opts.Format = viper.GetBool("gofmt")

	return opts, opts.Validate()
}

// loadDocument reads a single sample file, optionally renaming its root record
func loadDocument(path, name string) (*value.Document, error) {
	src, err := source.NewSource(path)
	if err != nil {
		return nil, err
	}
	doc, err := source.Load(src)
	if err != nil {
		return nil, err
	}
	if name != "" {
		doc.Name = name
	}
	return doc, nil
}
