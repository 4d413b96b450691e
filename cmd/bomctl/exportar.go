package main

import (
	"fmt"

	"github.com/facussc24/2026-sub001/internal/export"

	"github.com/spf13/cobra"
)

var (
	formato   string
	outputDir string
)

var exportarCmd = &cobra.Command{
	Use:   "exportar <producto>",
	Short: "Genera el reporte de estructura en PDF, XLSX o CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(formato)
		if err != nil {
			return err
		}
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		file, err := svcs.Exportacion.Generar(cmd.Context(), args[0], format, f)
		if err != nil {
			return err
		}
		path, err := export.LocalSink{Dir: outputDir}.Put(cmd.Context(), file.Name, file.ContentType, file.Data)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	addFilterFlags(exportarCmd)
	exportarCmd.Flags().StringVarP(&formato, "formato", "f", "pdf", "Formato: pdf, xlsx o csv")
	exportarCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directorio de salida")
}
