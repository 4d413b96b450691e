package main

import (
	"fmt"
	"io"

	"github.com/facussc24/2026-sub001/internal/flatten"
	"github.com/facussc24/2026-sub001/internal/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	niveles  string
	material string
)

var arbolCmd = &cobra.Command{
	Use:   "arbol <producto>",
	Short: "Muestra la estructura de un producto",
	Long:  "Muestra la estructura aplanada. --niveles filtra por nivel (\"\" oculta todo) y --material por material o descripcion.",
	Args:  cobra.ExactArgs(1),
	RunE:  runArbol,
}

func init() {
	addFilterFlags(arbolCmd)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&niveles, "niveles", "n", "", "Niveles a mostrar, separados por coma (ej: 0,2)")
	cmd.Flags().StringVarP(&material, "material", "m", "", "Texto a buscar en material o descripcion")
}

// filterFromFlags keeps an omitted --niveles distinct from --niveles="".
func filterFromFlags(cmd *cobra.Command) (flatten.Filter, error) {
	levels, err := flatten.ParseLevels(niveles, cmd.Flags().Changed("niveles"))
	if err != nil {
		return flatten.Filter{}, err
	}
	return flatten.Filter{Levels: levels, Material: material}, nil
}

func runArbol(cmd *cobra.Command, args []string) error {
	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	view, err := svcs.Estructura.Flatten(cmd.Context(), args[0], f)
	if err != nil {
		return err
	}
	return printTree(cmd.OutOrStdout(), view)
}

// printTree renders the rows as a table. Colors are dropped when out is not
// a terminal.
func printTree(out io.Writer, view *service.FlatView) error {
	re := lipgloss.NewRenderer(out)
	title := re.NewStyle().Bold(true)
	header := re.NewStyle().Bold(true).Padding(0, 1)
	cell := re.NewStyle().Padding(0, 1)
	numeric := cell.Align(lipgloss.Right)
	muted := cell.Faint(true)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(re.NewStyle().Faint(true)).
		Headers("NIVEL", "ESTRUCTURA", "DESCRIPCION", "MATERIAL", "CANTIDAD").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case len(view.Rows) == 0:
				return muted
			case col == 0 || col == 4:
				return numeric
			}
			return cell
		})

	for _, r := range view.Rows {
		desc, mat := view.Product.Description, ""
		if r.Item != nil {
			desc, mat = r.Item.Description, r.Item.Material
		}
		t.Row(fmt.Sprint(r.OriginalLevel), r.Prefix()+r.Node.Reference, desc, mat, r.Node.Quantity.String())
	}
	if len(view.Rows) == 0 {
		t.Row("-", "(sin filas para el filtro)", "", "", "")
	}

	_, err := fmt.Fprintf(out, "%s\n%s\n",
		title.Render(view.Product.BusinessID+"  "+view.Product.Description), t.Render())
	return err
}
