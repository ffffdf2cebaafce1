package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/deployport/pulumi-temporal-k8s/logging"
	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/render"
	"github.com/deployport/pulumi-temporal-k8s/stack"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

const envPrefix = "TEMPORAL"

type options struct {
	settingsFile string
	name         string
	namespace    string
	output       string
	logLevel     string
	logJSON      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "temporal-manifests",
		Short: "Render the Kubernetes manifests of a Temporal cluster",
		Long: `Render the Kubernetes manifests of a Temporal server cluster and Web UI.

Settings use the same keys as the Pulumi stack configuration (databaseHost,
numHistoryShards, ...). They are read from the settings file and from
TEMPORAL_<KEY> environment variables, e.g. TEMPORAL_DATABASEPASSWORD.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(logging.Config{
				Level:      logging.Level(opts.logLevel),
				JSONOutput: opts.logJSON,
				Output:     cmd.ErrOrStderr(),
			})
			return run(cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.settingsFile, "settings", "s", "", "settings file (yaml, json or toml)")
	flags.StringVar(&opts.name, "name", stackconfig.DefaultRootName, "root name of the generated resources")
	flags.StringVarP(&opts.namespace, "namespace", "n", "", "Kubernetes namespace of the generated resources")
	flags.StringVarP(&opts.output, "output", "o", "-", "output file, - for stdout")
	flags.StringVar(&opts.logLevel, "log-level", string(logging.InfoLevel), "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.logJSON, "log-json", false, "log in JSON")

	return cmd
}

func loadSettings(file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if file == "" {
		return v, nil
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	return v, nil
}

func run(stdout io.Writer, opts *options) error {
	log := logging.WithComponent("manifests")

	v, err := loadSettings(opts.settingsFile)
	if err != nil {
		return err
	}

	cfg := stackconfig.New(naming.New(opts.name), stackconfig.Viper(v))
	s, err := stack.Build(cfg, objectmeta.Placement{Namespace: opts.namespace})
	if err != nil {
		return err
	}
	log.Debug().
		Str("version", string(cfg.Version)).
		Str("checksum", s.ServerDeployment.ConfigChecksum).
		Msg("built stack")

	objs := s.Objects()
	if opts.output == "-" {
		err = render.YAML(stdout, objs)
	} else {
		err = writeFile(opts.output, objs)
	}
	if err != nil {
		return err
	}
	log.Info().Str("stack", s.Name.String()).Int("objects", len(objs)).Msg("rendered manifests")
	return nil
}

// writeFile renders objs to path. The file only counts as written once it is
// flushed and closed.
func writeFile(path string, objs []runtime.Object) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := render.YAML(w, objs); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
