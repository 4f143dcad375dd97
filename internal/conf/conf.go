// Package conf centralizes configuration: flags bound through viper so
// every setting can also come from the environment or a config file.
package conf

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagDBPath       = "db-path"
	flagSeed         = "seed"
	flagAPIPort      = "api-port"
	flagAdminKey     = "admin-key"
	flagTurnInterval = "turn-interval"
	flagLogLevel     = "log-level"
	flagStartPoints  = "starting-points"
)

const defaultTurnInterval = 2 * time.Second

// AddSimulationFlags registers the simulation flags on a command and
// binds them into viper.
func AddSimulationFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(flagDBPath, "data/govgen.db", "SQLite database path")
	cmd.PersistentFlags().Int64(flagSeed, 0, "Randomness seed (0 = seed from crypto/rand)")
	cmd.PersistentFlags().Int(flagAPIPort, 8080, "HTTP API port")
	cmd.PersistentFlags().String(flagAdminKey, "", "Bearer token for command endpoints (empty = disabled)")
	cmd.PersistentFlags().Duration(flagTurnInterval, defaultTurnInterval, "Base interval between turns")
	cmd.PersistentFlags().String(flagLogLevel, "info", `Log level (one of "debug", "info", "warn", "error")`)
	cmd.PersistentFlags().Int(flagStartPoints, 100, "Starting innovation point balance")

	viper.BindPFlags(cmd.PersistentFlags())
}

func GetDBPath() string {
	return viper.GetString(flagDBPath)
}

func GetSeed() int64 {
	return viper.GetInt64(flagSeed)
}

func GetAPIPort() int {
	return viper.GetInt(flagAPIPort)
}

func GetAdminKey() string {
	return viper.GetString(flagAdminKey)
}

func GetTurnInterval() time.Duration {
	return viper.GetDuration(flagTurnInterval)
}

func GetLogLevel() string {
	return viper.GetString(flagLogLevel)
}

func GetStartingPoints() int {
	return viper.GetInt(flagStartPoints)
}
