package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	csvFile string
	tipo    string
)

var importarCmd = &cobra.Command{
	Use:   "importar",
	Short: "Importa componentes del catalogo desde un CSV",
	Long:  "Importa semiterminados o insumos desde un CSV con columnas codigo,descripcion,material,unidad.",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(csvFile)
		if err != nil {
			return fmt.Errorf("abrir %s: %w", csvFile, err)
		}
		defer f.Close()

		resp, err := svcs.Importacion.ImportarComponentes(cmd.Context(), tipo, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", resp.Estado, resp.Mensaje)
		for _, r := range resp.Rechazados {
			fmt.Fprintf(cmd.OutOrStdout(), "  rechazada: %s\n", r)
		}
		return nil
	},
}

func init() {
	importarCmd.Flags().StringVarP(&csvFile, "csv", "c", "", "Archivo CSV a importar (obligatorio)")
	importarCmd.Flags().StringVarP(&tipo, "tipo", "t", "insumo", "Tipo de componente: semiterminado o insumo")
	_ = importarCmd.MarkFlagRequired("csv")
}
