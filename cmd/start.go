package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/beanboi7/chyp8/emu/config"
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/host"
	"github.com/beanboi7/chyp8/emu/screen"
)

var startCmd = &cobra.Command{
	Use:   "start `path/ROM`",
	Short: "load and start the Emulator",
	Args:  cobra.ExactArgs(1),
	RunE:  Start,
}

// chyp8 start 'path/to/ROM' -r 69
func Start(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper(), args[0])
	if err != nil {
		return err
	}

	opts := []cpu.Option{cpu.WithLogger(logger)}
	if cfg.WrapYByWidth {
		opts = append(opts, cpu.WithVerticalWidthWrap())
	}
	emu := cpu.NewEMU(opts...)

	reload := func() error { return emu.LoadROM(cfg.ROMPath) }
	if err := reload(); err != nil {
		return fmt.Errorf("starting the emulator: %w", err)
	}
	logger.Info("loaded ROM", log.String("path", cfg.ROMPath))

	win, err := screen.NewWindow(screen.Config{Scale: cfg.Scale, Keys: cfg.Keys})
	if err != nil {
		return err
	}
	defer win.Destroy()

	runner := host.New(emu, win, cfg.Refresh, logger)
	runner.Reload = reload

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return runner.Run(ctx)
}

func init() {
	startCmd.Flags().IntP(config.KeyRefresh, "r", config.DefaultRefresh, "sets the refresh rate of the display in Hz")
	startCmd.Flags().IntP(config.KeyScale, "s", config.DefaultScale, "size of one CHIP-8 pixel on screen")
	startCmd.Flags().Bool(config.KeyWrapYByWidth, false, "wrap sprites vertically at 64 rows like the original interpreter")

	for _, key := range []string{config.KeyRefresh, config.KeyScale, config.KeyWrapYByWidth} {
		cobra.CheckErr(viper.BindPFlag(key, startCmd.Flags().Lookup(key)))
	}
}
