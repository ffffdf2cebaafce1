// Command upsert pushes the Temporal dashboard, and any extra dashboards
// given as YAML files, to a Grafana instance.
//
// GRAFANA_HOST and the optional GRAFANA_API_TOKEN select the instance.
// Stack settings are read from TEMPORAL_<KEY> environment variables.
package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/K-Phoen/grabana"
	"github.com/K-Phoen/grabana/dashboard"
	"github.com/K-Phoen/grabana/decoder"
	"github.com/spf13/viper"

	"github.com/deployport/pulumi-temporal-k8s/dashboards"
	"github.com/deployport/pulumi-temporal-k8s/logging"
	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

const defaultFolder = "Temporal"

func main() {
	logging.Init(logging.Config{Level: logging.Level(os.Getenv("LOG_LEVEL"))})
	log := logging.WithComponent("dashboards")

	ctx := context.Background()
	options := []grabana.Option{}
	if os.Getenv("GRAFANA_API_TOKEN") != "" {
		options = append(options, grabana.WithAPIToken(os.Getenv("GRAFANA_API_TOKEN")))
	}
	client := grabana.NewClient(&http.Client{}, os.Getenv("GRAFANA_HOST"), options...)

	v := viper.New()
	v.SetEnvPrefix("TEMPORAL")
	v.AutomaticEnv()

	name := v.GetString("name")
	if name == "" {
		name = stackconfig.DefaultRootName
	}
	cfg := stackconfig.New(naming.New(name), stackconfig.Viper(v))

	stackDashboard, err := dashboards.Build(&cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build dashboard")
	}
	builders := []dashboard.Builder{stackDashboard}

	for _, path := range os.Args[1:] {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("could not read file")
		}
		b, err := decoder.UnmarshalYAML(f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("could not parse file")
		}
		builders = append(builders, b)
	}

	folder := strings.TrimSpace(os.Getenv("GRAFANA_FOLDER"))
	if folder == "" {
		folder = defaultFolder
	}
	if err := dashboards.Upsert(ctx, client, folder, builders...); err != nil {
		log.Fatal().Err(err).Msg("could not upsert dashboards")
	}
	log.Info().Str("folder", folder).Int("dashboards", len(builders)).Msg("dashboards upserted")
}
