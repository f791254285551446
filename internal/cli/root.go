package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config keys, also used as YAML keys and STORAGESYNC_* environment
// variables (dots become underscores).
const (
	keyStopOnError    = "stop_on_error"
	keySkipNames      = "skip_names"
	keyExclude        = "exclude"
	keyDryRun         = "dry_run"
	keyLogLevel       = "log_level"
	keyJSON           = "json"
	keyS3Region       = "s3.region"
	keyS3Endpoint     = "s3.endpoint"
	keyS3PathStyle    = "s3.path_style"
	keyMinIOAccessKey = "minio.access_key"
	keyMinIOSecretKey = "minio.secret_key"
	keyMinIOInsecure  = "minio.insecure"
)

var flagKeys = map[string]string{
	"stop-on-error":    keyStopOnError,
	"skip-name":        keySkipNames,
	"exclude":          keyExclude,
	"dry-run":          keyDryRun,
	"log-level":        keyLogLevel,
	"json":             keyJSON,
	"s3-region":        keyS3Region,
	"s3-endpoint":      keyS3Endpoint,
	"s3-path-style":    keyS3PathStyle,
	"minio-access-key": keyMinIOAccessKey,
	"minio-secret-key": keyMinIOSecretKey,
	"minio-insecure":   keyMinIOInsecure,
}

// Config is the resolved command configuration.
type Config struct {
	StopOnError bool
	SkipNames   []string
	Exclude     []string
	DryRun      bool
	LogLevel    string
	JSON        bool
	Backends    BackendConfig
}

// NewRootCommand creates the storagesync command.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "storagesync [flags] SOURCE DESTINATION",
		Short: "Copy new and changed files from one storage location to another",
		Long: `Copy new and changed files from SOURCE to DESTINATION.

A file is copied when it is missing at the destination, its size differs, or
the source copy is newer. Nothing is ever deleted at the destination.

Locations:
  /path or file:///path               local directory
  mem://                              empty in-memory filesystem
  s3://bucket[/prefix]                AWS S3
  minio://host[:port]/bucket[/prefix] S3-compatible server

Every flag can also be set in the config file or through a STORAGESYNC_
environment variable, e.g. STORAGESYNC_S3_REGION.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return WrapExitError(ExitCommandError, "invalid arguments", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromViper(v)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			return runSync(cmd, cfg, args[0], args[1])
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.Bool("stop-on-error", false, "abort on the first failed transfer")
	flags.StringSlice("skip-name", nil, "skip files with this base name (repeatable)")
	flags.StringSlice("exclude", nil, "skip paths matching this glob, e.g. '**/*.tmp' (repeatable)")
	flags.Bool("dry-run", false, "print the plan without copying anything")
	flags.String("log-level", "warn", "log level (debug|info|warn|error)")
	flags.Bool("json", false, "print the report as JSON")
	flags.String("s3-region", "", "AWS region for s3:// locations")
	flags.String("s3-endpoint", "", "custom endpoint for s3:// locations")
	flags.Bool("s3-path-style", false, "use path-style addressing for s3:// locations")
	flags.String("minio-access-key", "", "access key for minio:// locations")
	flags.String("minio-secret-key", "", "secret key for minio:// locations")
	flags.Bool("minio-insecure", false, "use plain HTTP for minio:// locations")
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default $HOME/.config/storagesync/storagesync.yaml)")

	return cmd
}

func loadConfig(cmd *cobra.Command, v *viper.Viper) error {
	if cmd.Flag("config").Changed {
		path, _ := cmd.Flags().GetString("config")
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return WrapExitError(ExitCommandError, "read config", err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "storagesync"))
		v.SetConfigName("storagesync")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("read config %q", v.ConfigFileUsed()), err)
			}
		}
	}

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return WrapExitError(ExitCommandError, "bind flags", err)
		}
	}

	v.SetEnvPrefix("STORAGESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}

func configFromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		StopOnError: v.GetBool(keyStopOnError),
		SkipNames:   v.GetStringSlice(keySkipNames),
		Exclude:     v.GetStringSlice(keyExclude),
		DryRun:      v.GetBool(keyDryRun),
		LogLevel:    v.GetString(keyLogLevel),
		JSON:        v.GetBool(keyJSON),
		Backends: BackendConfig{
			S3Region:       v.GetString(keyS3Region),
			S3Endpoint:     v.GetString(keyS3Endpoint),
			S3PathStyle:    v.GetBool(keyS3PathStyle),
			MinIOAccessKey: v.GetString(keyMinIOAccessKey),
			MinIOSecretKey: v.GetString(keyMinIOSecretKey),
			MinIOInsecure:  v.GetBool(keyMinIOInsecure),
		},
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
