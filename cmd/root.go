package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/viper"

	"github.com/beanboi7/chyp8/emu/config"
)

var (
	cfgFile string
	logger  = log.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "chyp8 [command]",
	Short:         "Chip-8 emulator using Go",
	Long:          "A Chip-8 emulator written from scratch that mimics the functionalities of a Chip-8, an interpretted language originally written for the COSMIC-VIP/ Telmac 8 bit systems.",
	Run:           Root,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Root(cmd *cobra.Command, args []string) {
	fmt.Println("Enter command as `chyp8 start /path/ROM --refresh 60`")
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chyp8.yaml)")
	rootCmd.PersistentFlags().Bool(config.KeyDebug, false, "log every executed opcode")
	rootCmd.PersistentFlags().Bool(config.KeyQuiet, false, "only log errors")
	cobra.CheckErr(viper.BindPFlag(config.KeyDebug, rootCmd.PersistentFlags().Lookup(config.KeyDebug)))
	cobra.CheckErr(viper.BindPFlag(config.KeyQuiet, rootCmd.PersistentFlags().Lookup(config.KeyQuiet)))

	rootCmd.AddCommand(startCmd)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("chyp8 failed", err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".chyp8" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".chyp8")
	}

	viper.SetEnvPrefix("chyp8")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	logger = config.CreateLogger(viper.GetBool(config.KeyDebug), viper.GetBool(config.KeyQuiet))

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.Info("using config file", log.String("path", viper.ConfigFileUsed()))
	} else if cfgFile != "" {
		logger.Error("reading config file", err, log.String("path", cfgFile))
	}
}
