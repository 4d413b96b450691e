package main

import (
	"fmt"

	"github.com/facussc24/2026-sub001/internal/dto"

	"github.com/spf13/cobra"
)

var cloneDescription string

var clonarCmd = &cobra.Command{
	Use:   "clonar <origen> <nuevo_codigo>",
	Short: "Copia un producto con un nuevo codigo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dto.ClonarProductoRequest{NuevoCodigo: args[1]}
		if cmd.Flags().Changed("descripcion") {
			req.Descripcion = &cloneDescription
		}
		resp, err := svcs.Clone.Clone(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", resp.Estado, resp.Mensaje)
		return nil
	},
}

func init() {
	clonarCmd.Flags().StringVarP(&cloneDescription, "descripcion", "d", "", "Descripcion del nuevo producto")
}
