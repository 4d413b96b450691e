package worker

// export_worker.go
// Processes export jobs from QueueExportacion: renders the filtered
// structure report and stores it in the configured sink.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/export"
	"github.com/facussc24/2026-sub001/internal/model"
	"github.com/facussc24/2026-sub001/internal/service"

	"github.com/rs/zerolog/log"
)

// StatusRecorder persists the progress of export jobs.
type StatusRecorder interface {
	SetExportStatus(ctx context.Context, st dto.ExportacionEstadoResponse) error
}

// ExportWorker processes export jobs.
type ExportWorker struct {
	svc    service.ExportacionService
	sink   export.Sink
	status StatusRecorder
}

func NewExportWorker(svc service.ExportacionService, sink export.Sink, status StatusRecorder) *ExportWorker {
	return &ExportWorker{svc: svc, sink: sink, status: status}
}

// Process renders and stores one report. The job status is updated on every
// transition; status write failures are logged, not fatal.
func (w *ExportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job dto.ExportJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("export_worker: invalid payload: %w", err)
	}
	st := dto.ExportacionEstadoResponse{
		JobID:    job.JobID,
		Producto: job.Producto,
		Formato:  job.Formato,
		Estado:   dto.ExportProcesando,
	}
	w.record(ctx, st)

	err := w.run(ctx, job, &st)
	if err != nil {
		st.Estado = dto.ExportFallido
		st.Error = model.PublicMessage(err)
		log.Error().Err(err).Str("job_id", job.JobID).Str("producto", job.Producto).Msg("export_worker: failed")
	} else {
		st.Estado = dto.ExportCompletado
		log.Info().Str("job_id", job.JobID).Str("ubicacion", st.Ubicacion).Msg("export_worker: report stored")
	}
	w.record(ctx, st)
	return err
}

func (w *ExportWorker) run(ctx context.Context, job dto.ExportJob, st *dto.ExportacionEstadoResponse) error {
	formato, err := export.ParseFormat(job.Formato)
	if err != nil {
		return fmt.Errorf("%v: %w", err, model.ErrInvalidStructuralOperation)
	}
	file, err := w.svc.Generar(ctx, job.Producto, formato, service.FilterFromJob(job))
	if err != nil {
		return err
	}
	loc, err := w.sink.Put(ctx, job.JobID+"/"+file.Name, file.ContentType, file.Data)
	if err != nil {
		return err
	}
	st.Ubicacion = loc
	return nil
}

func (w *ExportWorker) record(ctx context.Context, st dto.ExportacionEstadoResponse) {
	if w.status == nil {
		return
	}
	if err := w.status.SetExportStatus(ctx, st); err != nil {
		log.Warn().Err(err).Str("job_id", st.JobID).Msg("export_worker: status not recorded")
	}
}
