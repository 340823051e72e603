/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: root.go
Description: Command tree for structgen. Defines the root command with its persistent
logging and config flags, the generate, schema and fields subcommands, and binds every
flag into viper so values can also come from a config file or STRUCTGEN_* variables.
*/

package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand builds the structgen command tree
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "structgen",
		Short: "structgen - typed struct declarations from sample data",
		Long: `structgen infers a record schema from sample JSON, YAML or CSV sheets and
emits equivalent Go struct declarations with serialization tags, so strongly typed
bindings can be generated instead of written by hand.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().String("log-dir", "", "Log output directory (empty logs to the console only)")
	rootCmd.PersistentFlags().Int("max-array-nesting", 2, "Deepest sequence-of-sequence typed from array samples")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("max_array_nesting", rootCmd.PersistentFlags().Lookup("max-array-nesting"))

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate struct declarations from sample files",
		Long: `Discover sample files under --input, infer a schema for each one and write
every distinct record as a Go struct declaration to --output (stdout when empty).`,
		Args: cobra.NoArgs,
		RunE: RunGenerate,
	}

	generateCmd.Flags().StringP("input", "i", "", "Sample file or directory (required)")
	generateCmd.Flags().StringP("output", "o", "", "Generated Go file (stdout when empty)")
	generateCmd.Flags().String("package", "json", "Package clause of the generated file")
	generateCmd.Flags().Bool("omit-empty", false, "Add omitempty to every serialization tag")
	generateCmd.Flags().String("order", "deps", "Declaration order (deps, root)")
	generateCmd.Flags().Int("workers", 0, "Number of parallel pipelines (0 = auto-detect)")
	generateCmd.Flags().Bool("skip-invalid", false, "Skip invalid samples instead of aborting")
	generateCmd.Flags().Bool("gofmt", true, "Format the generated file")
	generateCmd.Flags().String("report-dir", "", "Directory for the JSON run report")

	viper.BindPFlag("input", generateCmd.Flags().Lookup("input"))
	viper.BindPFlag("output", generateCmd.Flags().Lookup("output"))
	viper.BindPFlag("package", generateCmd.Flags().Lookup("package"))
	viper.BindPFlag("omit_empty", generateCmd.Flags().Lookup("omit-empty"))
	viper.BindPFlag("order", generateCmd.Flags().Lookup("order"))
	viper.BindPFlag("workers", generateCmd.Flags().Lookup("workers"))
	viper.BindPFlag("skip_invalid", generateCmd.Flags().Lookup("skip-invalid"))
	viper.BindPFlag("gofmt", generateCmd.Flags().Lookup("gofmt"))
	viper.BindPFlag("report_dir", generateCmd.Flags().Lookup("report-dir"))

	schemaCmd := &cobra.Command{
		Use:   "schema <file>",
		Short: "Print the inferred schema tree of a sample file",
		Args:  cobra.ExactArgs(1),
		RunE:  RunSchema,
	}
	schemaCmd.Flags().String("name", "", "Root record name (defaults to the file name)")

	fieldsCmd := &cobra.Command{
		Use:   "fields <file>",
		Short: "Print the rendered fields of every record in a sample file",
		Args:  cobra.ExactArgs(1),
		RunE:  RunFields,
	}
	fieldsCmd.Flags().String("name", "", "Root record name (defaults to the file name)")

	rootCmd.AddCommand(generateCmd, schemaCmd, fieldsCmd)
	return rootCmd
}
