package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wta12/urbanopt-geojson-gem/internal/config"
)

// app carries what every command needs once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "floorprint",
		Short:        "Convert GeoJSON building footprints into 3D floor prints, zones and shading",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = cfg.NewLogger(os.Stderr)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./floorprint.yaml)")

	rootCmd.AddCommand(convertCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(shadowCmd(a))
	rootCmd.AddCommand(zonesCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func convertCmd(a *app) *cobra.Command {
	var featureID string

	cmd := &cobra.Command{
		Use:   "convert [site-dir]",
		Short: "Convert a site project and print the scene graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd.Context(), args[0], featureID)
		},
	}

	cmd.Flags().StringVarP(&featureID, "feature", "f", "", "feature to convert (default from site.yaml, or all)")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	var featureID string

	cmd := &cobra.Command{
		Use:   "validate [site-dir]",
		Short: "Validate a site project and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd.Context(), args[0], featureID)
		},
	}

	cmd.Flags().StringVarP(&featureID, "feature", "f", "", "feature to convert (default from site.yaml, or all)")
	return cmd
}

func shadowCmd(a *app) *cobra.Command {
	var featureID, otherID string

	cmd := &cobra.Command{
		Use:   "shadow [geojson]",
		Short: "Report whether one building can shadow the ground floor of another",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runShadow(args[0], featureID, otherID)
		},
	}

	cmd.Flags().StringVar(&featureID, "feature", "", "building whose ground floor is tested")
	cmd.Flags().StringVar(&otherID, "other", "", "building casting the shadow")
	cmd.MarkFlagRequired("feature")
	cmd.MarkFlagRequired("other")
	return cmd
}

func zonesCmd(a *app) *cobra.Command {
	var featureID string
	var depth float64

	cmd := &cobra.Command{
		Use:   "zones [geojson]",
		Short: "Divide every story of a building into core and perimeter zones",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runZones(args[0], featureID, depth)
		},
	}

	cmd.Flags().StringVar(&featureID, "feature", "", "building to divide")
	cmd.Flags().Float64Var(&depth, "depth", 0, "perimeter zone depth in meters (default from config)")
	cmd.MarkFlagRequired("feature")
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [site-dir]",
		Short: "Start the local server for a site project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			return a.runServe(cmd.Context(), args[0])
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port")
	return cmd
}
