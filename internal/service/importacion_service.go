package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/jszwec/csvutil"
	"github.com/rs/zerolog/log"
)

// ImportacionService loads catalog components in bulk from CSV with the
// columns codigo, descripcion, material, unidad.
type ImportacionService interface {
	ImportarComponentes(ctx context.Context, tipo string, r io.Reader) (*dto.ImportacionResponse, error)
}

type importacionService struct {
	estructura EstructuraService
}

func NewImportacionService(estructura EstructuraService) ImportacionService {
	return &importacionService{estructura: estructura}
}

// ImportarComponentes upserts every valid row. Rows without codigo or
// descripcion are reported back; a store failure aborts the import.
func (s *importacionService) ImportarComponentes(ctx context.Context, tipo string, r io.Reader) (*dto.ImportacionResponse, error) {
	kind := model.NodeKind(tipo)
	if kind != model.KindSemiFinished && kind != model.KindRawMaterial {
		return nil, fmt.Errorf("tipo de componente invalido %q: %w", tipo, model.ErrInvalidStructuralOperation)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	dec, err := csvutil.NewDecoder(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &dto.ImportacionResponse{Outcome: dto.Info("El archivo no contiene filas")}, nil
		}
		return nil, fmt.Errorf("csv invalido: %v: %w", err, model.ErrInvalidStructuralOperation)
	}

	resp := &dto.ImportacionResponse{}
	for line := 2; ; line++ {
		var c model.Component
		if err := dec.Decode(&c); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("csv linea %d: %v: %w", line, err, model.ErrInvalidStructuralOperation)
		}
		if strings.TrimSpace(c.Code) == "" || len(strings.TrimSpace(c.Description)) < 2 {
			resp.Rechazados = append(resp.Rechazados, fmt.Sprintf("linea %d: codigo y descripcion son obligatorios", line))
			continue
		}
		_, err := s.estructura.GuardarComponente(ctx, tipo, c.Code, dto.ComponenteRequest{
			Descripcion: c.Description,
			Material:    c.Material,
			Unidad:      c.Unit,
		})
		if err != nil {
			return nil, fmt.Errorf("csv linea %d: %w", line, err)
		}
		resp.Importados++
	}

	switch {
	case resp.Importados == 0 && len(resp.Rechazados) == 0:
		resp.Outcome = dto.Info("El archivo no contiene filas")
	case len(resp.Rechazados) > 0:
		resp.Outcome = dto.Success(fmt.Sprintf("%d componentes importados, %d filas rechazadas", resp.Importados, len(resp.Rechazados)))
	default:
		resp.Outcome = dto.Success(fmt.Sprintf("%d componentes importados", resp.Importados))
	}
	log.Info().Str("tipo", tipo).Int("importados", resp.Importados).Int("rechazados", len(resp.Rechazados)).Msg("importacion de componentes")
	return resp, nil
}
