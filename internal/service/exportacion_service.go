package service

import (
	"context"
	"fmt"
	"time"

	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/export"
	"github.com/facussc24/2026-sub001/internal/flatten"
	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ExportQueue hands export jobs to the async worker pool.
type ExportQueue interface {
	EnqueueExport(ctx context.Context, job dto.ExportJob) error
	ExportStatus(ctx context.Context, jobID string) (*dto.ExportacionEstadoResponse, error)
}

// Archivo is a rendered report.
type Archivo struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportacionService renders structure reports synchronously or queues them.
type ExportacionService interface {
	Generar(ctx context.Context, id string, formato export.Format, f flatten.Filter) (*Archivo, error)
	Encolar(ctx context.Context, id string, req dto.ExportacionRequest) (*dto.ExportacionResponse, error)
	Estado(ctx context.Context, jobID string) (*dto.ExportacionEstadoResponse, error)
}

type exportacionService struct {
	estructura EstructuraService
	queue      ExportQueue
	now        func() time.Time
}

// NewExportacionService builds the service. queue may be nil when no redis
// is configured; async exports are then unavailable.
func NewExportacionService(estructura EstructuraService, queue ExportQueue) ExportacionService {
	return &exportacionService{estructura: estructura, queue: queue, now: time.Now}
}

func (s *exportacionService) Generar(ctx context.Context, id string, formato export.Format, f flatten.Filter) (*Archivo, error) {
	view, err := s.estructura.Flatten(ctx, id, f)
	if err != nil {
		return nil, err
	}
	doc := export.Document{Product: view.Product, Filter: f, Rows: view.Rows, GeneratedAt: s.now()}
	data, err := export.Bytes(formato, doc)
	if err != nil {
		return nil, err
	}
	log.Info().Str("producto", id).Str("formato", string(formato)).Int("filas", len(view.Rows)).Msg("exportacion generada")
	return &Archivo{Name: export.FileName(doc, formato), ContentType: formato.ContentType(), Data: data}, nil
}

func (s *exportacionService) Encolar(ctx context.Context, id string, req dto.ExportacionRequest) (*dto.ExportacionResponse, error) {
	if s.queue == nil {
		return nil, fmt.Errorf("cola de exportacion no disponible: %w", model.ErrTransport)
	}
	formato, err := export.ParseFormat(req.Formato)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, model.ErrInvalidStructuralOperation)
	}
	// fail fast on unknown products instead of in the worker
	if _, err := s.estructura.ObtenerProducto(ctx, id); err != nil {
		return nil, err
	}

	job := dto.ExportJob{
		JobID:    uuid.NewString(),
		Producto: id,
		Formato:  string(formato),
		Niveles:  req.Niveles,
		Material: req.Material,
	}
	if err := s.queue.EnqueueExport(ctx, job); err != nil {
		return nil, fmt.Errorf("encolar exportacion: %w: %v", model.ErrTransport, err)
	}
	return &dto.ExportacionResponse{
		Outcome: dto.Success("Exportacion encolada"),
		JobID:   job.JobID,
		Formato: job.Formato,
	}, nil
}

func (s *exportacionService) Estado(ctx context.Context, jobID string) (*dto.ExportacionEstadoResponse, error) {
	if s.queue == nil {
		return nil, fmt.Errorf("cola de exportacion no disponible: %w", model.ErrTransport)
	}
	return s.queue.ExportStatus(ctx, jobID)
}

// FilterFromJob rebuilds the flatten filter of a queued job.
func FilterFromJob(job dto.ExportJob) flatten.Filter {
	f := flatten.Filter{Material: job.Material}
	if job.Niveles != nil {
		f.Levels = flatten.OnlyLevels(job.Niveles...)
	}
	return f
}
