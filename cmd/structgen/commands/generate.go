/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: generate.go
Description: generate command. Discovers sample files, runs the generation pipeline over
them, writes the resulting declarations and optionally a JSON run report.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/structgen/pkg/pipeline"
	"github.com/kleascm/structgen/pkg/report"
	"github.com/kleascm/structgen/pkg/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunGenerate executes the generate command
func RunGenerate(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Logger()

	input := viper.GetString("input")
	if input == "" {
		return fmt.Errorf("--input is required")
	}

	opts, err := PipelineOptions()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	sources, err := source.Discover(input)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no json, yaml or csv samples found in %s", input)
	}
	log.WithField("sources", len(sources)).Debug("Discovered samples")

	result, err := pipeline.Run(cmd.Context(), sources, opts, log)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	output := viper.GetString("output")
	if output == "" {
		err = pipeline.Write(cmd.OutOrStdout(), opts.PackageName, result.Declarations, opts.Render.Target, opts.Format, log)
	} else {
		err = pipeline.WriteFile(output, opts.PackageName, result.Declarations, opts.Render.Target, opts.Format, log)
	}
	if err != nil {
		return err
	}

	status := cmd.ErrOrStderr()
	fmt.Fprintf(status, "✅ Generated %d declarations from %d files\n", len(result.Declarations), len(result.Files))
	if output != "" {
		fmt.Fprintf(status, "📁 Output: %s\n", output)
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(status, "⚠️  Skipped %d invalid files:\n", len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Fprintf(status, "   %s: %v\n", s.Source.Path, s.Err)
		}
	}

	if dir := viper.GetString("report_dir"); dir != "" {
		path, err := report.Write(dir, result.Report(cmd.Root().Version, output))
		if err != nil {
			return err
		}
		fmt.Fprintf(status, "📊 Report: %s\n", path)
	}

	return nil
}
