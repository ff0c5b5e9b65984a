//go:build gcloud

package main

import (
	"context"
	"os"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/logging"
)

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("CLOUD_RUN_JOB")
	if serviceName == "" {
		serviceName = "slot-allocation"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	obsCfg := newObservabilityConfig(cfg)
	obsCfg.ServiceInfo = logging.ServiceInfo{
		Name:     serviceName,
		Version:  Version,
		Revision: os.Getenv("CLOUD_RUN_EXECUTION"),
	}
	obsCfg.Environment = env
	obsCfg.GCPProjectID = projectID
	obsCfg.DefaultModule = logging.Module("slot-allocation")

	obs, err := observability.Init(ctx, obsCfg)
	if err != nil {
		return nil, err
	}

	return obs, nil
}
