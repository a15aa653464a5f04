// Command hbflowd is a thin host for a GraphEngine: it reads a graph
// descriptor file through viper, resolves component classes against the
// default registry, binds and runs the network until interrupted. Real
// deployments register their own components (blank-imported for their
// init()-time registry.Register side effect) ahead of Execute.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/beerfactory/hbflow/engine"
	"github.com/beerfactory/hbflow/internal/liblog"
	"github.com/beerfactory/hbflow/monitor"
	"github.com/beerfactory/hbflow/registry"
)

var (
	cfgFile string
	v       = viper.New()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hbflowd",
		Short: "run a flow-based graph descriptor",
		RunE:  run,
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "graph descriptor file (yaml/json)")
	_ = v.BindPFlag("config", cmd.Flags().Lookup("config"))
	return cmd
}

// stopTimeout bounds how long Stop waits for every process to report
// StateStopped before Shutdown is attempted anyway.
const stopTimeout = 10 * time.Second

func run(cmd *cobra.Command, _ []string) error {
	if cfgFile == "" {
		return fmt.Errorf("hbflowd: --config is required")
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("hbflowd: reading %s: %w", cfgFile, err)
	}

	log := liblog.New()
	pool := monitor.NewPool()
	e := engine.New("hbflowd", log, registry.Default())
	e.RegisterMonitorPool(pool)

	if err := e.InitFromDescriptor(v.AllSettings()); err != nil {
		return fmt.Errorf("hbflowd: bind: %w", err)
	}
	if err := e.RegisterFlags(cmd, v); err != nil {
		log.Warn("one or more processes rejected flag registration", liblog.Fields{"error": err.Error()})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := e.Start(ctx); err != nil {
		return fmt.Errorf("hbflowd: start: %w", err)
	}
	log.Info("graph running, waiting for signal", liblog.Fields{"processes": len(e.Processes())})

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := e.Stop(stopCtx); err != nil {
		log.Error("stop failed", liblog.Fields{"error": err.Error()})
	}
	if err := e.Shutdown(stopCtx); err != nil {
		log.Error("shutdown failed", liblog.Fields{"error": err.Error()})
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
