// Command govgen runs the tribal democratization simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ArtoLabs/GovGen/internal/conf"
)

var rootCmd = &cobra.Command{
	Use:   "govgen",
	Short: "A turn-based simulation of a tribal polity discovering democracy",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

func initConfig() {
	viper.SetEnvPrefix("govgen")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if viper.IsSet("config-file") {
		viper.SetConfigFile(viper.GetString("config-file"))
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "read configuration file:", err)
			os.Exit(1)
		}
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/govgen")
		viper.SetConfigName("govgen")
		_ = viper.ReadInConfig() // optional
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(conf.GetLogLevel())); err != nil {
		fmt.Fprintln(os.Stderr, "invalid log level:", conf.GetLogLevel())
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

func main() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config-file", "", "Configuration file to use (default search paths are . and /etc/govgen)")
	viper.BindPFlags(rootCmd.PersistentFlags())

	conf.AddSimulationFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(infoCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
