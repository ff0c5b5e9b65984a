//go:build !gcloud

package main

import (
	"context"
	"os"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/logging"
)

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "slot-allocation"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obsCfg := newObservabilityConfig(cfg)
	obsCfg.ServiceInfo = logging.ServiceInfo{
		Name:     serviceName,
		Version:  Version,
		Revision: "",
	}
	obsCfg.Environment = env
	obsCfg.DefaultModule = logging.Module("slot-allocation")

	obs, err := observability.Init(ctx, obsCfg)
	if err != nil {
		return nil, err
	}

	return obs, nil
}
