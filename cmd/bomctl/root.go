package main

import (
	"os"
	"time"

	"github.com/facussc24/2026-sub001/internal/config"
	"github.com/facussc24/2026-sub001/internal/repository"
	"github.com/facussc24/2026-sub001/internal/router"
	"github.com/facussc24/2026-sub001/internal/structure"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	driver  string
	verbose bool

	backend *repository.Backend
	svcs    *router.Services
)

var rootCmd = &cobra.Command{
	Use:          "bomctl",
	Short:        "Herramienta de linea de comandos para estructuras de producto",
	Long:         "bomctl consulta, clona, elimina y exporta estructuras de producto directamente contra el almacenamiento configurado.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(level)

		if driver != "" {
			os.Setenv("STORE_DRIVER", driver)
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// the CLI renders synchronously; redis is only used as cache
		backend, err = repository.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		svcs = router.NewServices(router.Deps{
			Store: backend.Store,
			Redis: backend.Redis,
			IDs:   structure.DefaultGenerator(),
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if backend != nil {
			backend.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Almacenamiento: memory, postgres o mongo (por defecto STORE_DRIVER)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log detallado")

	rootCmd.AddCommand(arbolCmd)
	rootCmd.AddCommand(eliminarCmd)
	rootCmd.AddCommand(clonarCmd)
	rootCmd.AddCommand(importarCmd)
	rootCmd.AddCommand(exportarCmd)
}
