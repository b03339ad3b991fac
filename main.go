//go:build linux

package main

import (
	"os"

	"go.uber.org/zap"

	"procbox/profile"
	"procbox/sandbox"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) < 3 {
		logger.Fatal("usage: procbox <profile.yaml> <program> [args...]")
	}

	prof, err := profile.Load(os.Args[1])
	if err != nil {
		logger.Fatal("load profile", zap.Error(err))
	}

	status := sandbox.Run(prof.Config(0, 0), sandbox.Target{
		Pathname: os.Args[2],
		Argv:     os.Args[3:],
	}, sandbox.WithPolicy(prof.Policy), sandbox.WithLogger(logger))

	if status.Code != sandbox.Success {
		logger.Fatal("sandbox failure",
			zap.Int64("code", int64(status.Code)), zap.String("msg", status.Msg))
	}

	fields := []zap.Field{
		zap.Uint64("memory_bytes", status.Usage.MemoryUsage),
		zap.Float64("user_cpu_seconds", status.Usage.UserCPUTime),
		zap.Float64("system_cpu_seconds", status.Usage.SystemCPUTime),
		zap.Float64("wall_seconds", status.Usage.WallTime),
	}
	if sig, ok := status.Exit.Signaled(); ok {
		desc, _ := sandbox.SignalDescription(sig)
		logger.Info("terminated by signal",
			append([]zap.Field{zap.Int("signal", sig), zap.String("description", desc)}, fields...)...)
		os.Exit(1)
	}
	code, _ := status.Exit.Exited()
	logger.Info("exited", append([]zap.Field{zap.Int("code", code)}, fields...)...)
}
