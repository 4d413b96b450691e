package main

import (
	"fmt"

	"github.com/facussc24/2026-sub001/internal/service"

	"github.com/spf13/cobra"
)

var eliminarCmd = &cobra.Command{
	Use:   "eliminar <producto>",
	Short: "Elimina un producto y sus componentes huerfanos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := svcs.Cascade.DeleteProductCascade(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		resp := service.MapEliminacion(res)
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", resp.Estado, resp.Mensaje)
		for _, c := range resp.Componentes {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", c)
		}
		return nil
	},
}
