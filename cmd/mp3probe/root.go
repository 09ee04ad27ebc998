package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/simonhull/mp3probe"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mp3probe",
	Short: "Detect MP3 duration and stream properties without decoding",
	Long: `mp3probe reads MPEG frame headers to report duration, bitrate,
sample rate and channel layout of MP3 files.

Examples:
  # Probe a single file
  mp3probe probe song.mp3
  mp3probe probe --json song.mp3

  # Scan a directory tree and summarize
  mp3probe scan ~/music

  # Dump the first frame headers of a stream
  mp3probe frames song.mp3 -n 10`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = mp3probe.Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file path (e.g. mp3probe.yaml)")
	rootCmd.PersistentFlags().
		Bool("dbg", false, "debug mode with verbose logging")
	rootCmd.PersistentFlags().
		Int("retries", 3, "read retry budget for flaky sources")

	// Bind to viper
	mustBindPFlag("dbg", rootCmd.PersistentFlags().Lookup("dbg"))
	mustBindPFlag("retries", rootCmd.PersistentFlags().Lookup("retries"))

	// Default values
	viper.SetDefault("dbg", false)
	viper.SetDefault("retries", 3)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			fmt.Fprintf(os.Stderr, "Config file not found: %s\n", cfgFile)
			os.Exit(1)
		}

		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config file in home directory and current directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".mp3probe")
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("mp3probe")
	}

	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("MP3PROBE")                         // MP3PROBE_ prefix for env vars
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // Replace . with _ in env var names
	viper.AutomaticEnv()                                   // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		// Only error if user explicitly specified a config file
		fmt.Fprintf(os.Stderr, "Error reading config file [%s]: %v\n", viper.ConfigFileUsed(), err)
		os.Exit(1)
	}

	setupLog(viper.GetBool("dbg"))
}

// mustBindPFlag binds a flag to its viper key and panics on failure, which
// can only happen with a mistyped flag name at init time.
func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

// setupLog configures the global lgr logger.
func setupLog(dbg bool) {
	if dbg {
		log.Setup(log.Debug, log.CallerFile, log.CallerFunc, log.Msec, log.LevelBraces)
		return
	}
	log.Setup(log.Msec, log.LevelBraces)
}

// probeOptions assembles library options from the global configuration.
// In debug mode session diagnostics flow into the global logger.
func probeOptions() []mp3probe.Option {
	opts := []mp3probe.Option{
		mp3probe.WithReadRetries(viper.GetInt("retries")),
	}
	if viper.GetBool("dbg") {
		opts = append(opts, mp3probe.WithLogger(log.Default()))
	}
	return opts
}
