// internal/service/printer_service.go
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"receipt-service/internal/assets"
	"receipt-service/internal/config"
	"receipt-service/internal/escpos"
	"receipt-service/internal/events"
	"receipt-service/internal/layout"
	"receipt-service/internal/metrics"
	"receipt-service/internal/model"
	"receipt-service/internal/payload"
	"receipt-service/internal/printjob"
	"receipt-service/internal/raster"
	"receipt-service/internal/reconcile"
	"receipt-service/internal/repository"
	"receipt-service/internal/transport"
	"receipt-service/internal/utils"
)

// PrinterService turns print requests into device byte streams
type PrinterService struct {
	transport   *transport.Transport
	encoder     *escpos.Encoder
	assets      *assets.Library
	jobRepo     repository.JobRepository
	eventBus    *events.Bus
	metrics     *metrics.Metrics
	config      *config.Config
	logger      *utils.ServiceLogger
	auditLogger *utils.AuditLogger
}

// NewPrinterService creates a new printer service instance
func NewPrinterService(
	tr *transport.Transport,
	library *assets.Library,
	jobRepo repository.JobRepository,
	eventBus *events.Bus,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) (*PrinterService, error) {
	encoder, err := escpos.NewEncoder(cfg.Printer.CodePage)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	return &PrinterService{
		transport:   tr,
		encoder:     encoder,
		assets:      library,
		jobRepo:     jobRepo,
		eventBus:    eventBus,
		metrics:     m,
		config:      cfg,
		logger:      utils.NewServiceLogger(logger, "printer-service"),
		auditLogger: utils.NewAuditLogger(logger),
	}, nil
}

// PrintReceipt reconciles, lays out, encodes and sends a receipt
func (ps *PrinterService) PrintReceipt(ctx context.Context, req *payload.Receipt) (*PrintResult, error) {
	start := time.Now()

	totals, job, err := ps.compose(req, true)
	if err != nil {
		ps.observe(model.JobKindReceipt, start, err)
		return nil, err
	}

	data, err := ps.encoder.Encode(job)
	if err != nil {
		ps.observe(model.JobKindReceipt, start, err)
		return nil, fmt.Errorf("failed to encode receipt: %w", err)
	}

	result, err := ps.send(ctx, model.JobKindReceipt, ps.queue(req.Queue), data, totals, start)
	if err != nil {
		return nil, err
	}

	ps.auditLogger.LogReceiptPrinted(result.JobID.String(), result.QueueID, totals.Total.Decimal.String(), len(req.Items))
	return &PrintResult{
		JobResult: *result,
		Status:    "printed",
		Total:     totals.Total.Decimal,
	}, nil
}

// PreviewReceipt renders the receipt to a PNG without touching any queue.
// Text blocks are disabled so the image shows every line.
func (ps *PrinterService) PreviewReceipt(ctx context.Context, req *payload.Receipt) ([]byte, error) {
	_, job, err := ps.compose(req, false)
	if err != nil {
		return nil, err
	}

	page, err := raster.Stack(job.Rasters()...)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble preview: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, page.Image(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// OpenDrawer sends a drawer kick pulse
func (ps *PrinterService) OpenDrawer(ctx context.Context, req *DrawerRequest) (*JobResult, error) {
	start := time.Now()

	kick := printjob.DrawerKick{
		Pin:   ps.config.Printer.DrawerPin,
		OnMs:  ps.config.Printer.DrawerOnMs,
		OffMs: ps.config.Printer.DrawerOffMs,
	}
	if req.Pin != nil {
		kick.Pin = *req.Pin
	}

	data, err := escpos.EncodeDrawerKick(kick)
	if err != nil {
		verr := model.NewValidationError("pin", "%v", err)
		ps.observe(model.JobKindDrawer, start, verr)
		return nil, verr
	}

	queue := ps.queue(req.Queue)
	result, err := ps.send(ctx, model.JobKindDrawer, queue, data, model.TransactionTotals{}, start)
	ps.auditLogger.LogDrawerOpened(queue, kick.Pin, requestID(ctx), err == nil)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PrintTestPage prints the printer settings under a test page title
func (ps *PrinterService) PrintTestPage(ctx context.Context, req *TestPageRequest) (*JobResult, error) {
	start := time.Now()
	queue := ps.queue(req.Queue)

	spec, err := ps.renderSpec(true)
	if err != nil {
		ps.observe(model.JobKindTestPage, start, err)
		return nil, err
	}

	job, err := layout.LayoutFields("Test page", ps.settingsFields(queue), spec)
	if err != nil {
		ps.observe(model.JobKindTestPage, start, err)
		return nil, err
	}

	data, err := ps.encoder.Encode(job)
	if err != nil {
		ps.observe(model.JobKindTestPage, start, err)
		return nil, fmt.Errorf("failed to encode test page: %w", err)
	}

	return ps.send(ctx, model.JobKindTestPage, queue, data, model.TransactionTotals{}, start)
}

// ListQueues returns the registered printer queues
func (ps *PrinterService) ListQueues() []transport.QueueInfo {
	return ps.transport.Registry().List()
}

// DiscoverPorts lists serial ports and USB printers attached to the host
func (ps *PrinterService) DiscoverPorts() []transport.DiscoveredPort {
	return transport.Discover(ps.logger.Logger)
}

// RecentJobs returns the most recent jobs, newest first
func (ps *PrinterService) RecentJobs(ctx context.Context, limit int) ([]*model.JobRecord, error) {
	jobs, err := ps.jobRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// compose runs reconciliation and layout for a receipt request
func (ps *PrinterService) compose(req *payload.Receipt, textBlocks bool) (model.TransactionTotals, *printjob.Job, error) {
	totals, err := reconcile.Reconcile(req.Items, req.Transaction)
	if err != nil {
		return totals, nil, err
	}

	spec, err := ps.renderSpec(textBlocks)
	if err != nil {
		return totals, nil, err
	}

	content, err := ps.content(req)
	if err != nil {
		return totals, nil, err
	}

	job, err := layout.Layout(content, totals, spec)
	if err != nil {
		return totals, nil, err
	}
	return totals, job, nil
}

// content merges per-request overrides into the configured decorations.
// Configured image paths are used as is; request image names are resolved
// inside the asset directory.
func (ps *PrinterService) content(req *payload.Receipt) (model.ReceiptContent, error) {
	lc := ps.config.Layout
	o := req.Overrides

	headerImage, err := ps.assetPath("header_image", o.HeaderImage)
	if err != nil {
		return model.ReceiptContent{}, err
	}
	footerImage, err := ps.assetPath("footer_image", o.FooterImage)
	if err != nil {
		return model.ReceiptContent{}, err
	}

	return model.ReceiptContent{
		HeaderFields:      req.HeaderFields,
		Items:             req.Items,
		FooterFields:      req.FooterFields,
		HeaderTitle:       pick(o.HeaderTitle, lc.HeaderTitle),
		HeaderDescription: pick(o.HeaderDescription, lc.HeaderDescription),
		ReceiptTitle:      pick(o.ReceiptTitle, lc.ReceiptTitle),
		FooterLabel:       pick(o.FooterLabel, lc.FooterLabel),
		HeaderImage:       imageRef(pick(headerImage, lc.HeaderImage), pickScale(o.HeaderImageScale, lc.HeaderImageScale)),
		FooterImage:       imageRef(pick(footerImage, lc.FooterImage), pickScale(o.FooterImageScale, lc.FooterImageScale)),
	}, nil
}

// assetPath resolves a request supplied image name inside layout.asset_dir.
// Absolute names and names that climb out of the directory are rejected.
func (ps *PrinterService) assetPath(field, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	dir := ps.config.Layout.AssetDir
	if dir == "" {
		return "", model.NewValidationError(field, "image overrides are disabled")
	}
	if !filepath.IsLocal(name) {
		return "", model.NewValidationError(field, "must be a relative path inside the asset directory")
	}
	return filepath.Join(dir, name), nil
}

// renderSpec resolves fonts and paper settings from configuration
func (ps *PrinterService) renderSpec(textBlocks bool) (layout.RenderSpec, error) {
	pc := ps.config.Printer
	lc := ps.config.Layout

	body, err := ps.assets.Typeface(lc.FontPath, lc.ThaiFontPath, lc.FontSizeSmall, false)
	if err != nil {
		return layout.RenderSpec{}, err
	}
	title, err := ps.assets.Typeface(lc.FontPath, lc.ThaiFontPath, lc.FontSize, true)
	if err != nil {
		return layout.RenderSpec{}, err
	}

	labels := layout.Labels{
		ItemColumn:   lc.Labels.ItemColumn,
		AmountColumn: lc.Labels.AmountColumn,
		ItemsTotal:   lc.Labels.ItemsTotal,
		Discount:     lc.Labels.Discount,
		Total:        lc.Labels.Total,
		Received:     lc.Labels.Received,
		Change:       lc.Labels.Change,
		Currency:     lc.Labels.Currency,
	}

	return layout.RenderSpec{
		PaperWidth:     pc.PaperWidthPx,
		Margin:         lc.Margin,
		LineSpacing:    lc.LineSpacing,
		MaxBlockHeight: pc.MaxBlockHeight,
		FeedLines:      pc.FeedLines,
		TextBlocks:     textBlocks && pc.TextBlocks,
		TextColumns:    pc.TextColumns,
		Body:           body,
		Title:          title,
		Emphasis:       title,
		Labels:         labels,
		Images:         ps.assets,
	}, nil
}

// settingsFields lists the printer configuration for the test page
func (ps *PrinterService) settingsFields(queue string) model.Fields {
	pc := ps.config.Printer

	var fields model.Fields
	fields.Set("Queue", queue)
	fields.Set("Paper width", strconv.Itoa(pc.PaperWidthPx)+" px")
	fields.Set("Code page", ps.encoder.CodePage().Name)
	fields.Set("Text blocks", onOff(pc.TextBlocks))
	fields.Set("Feed lines", strconv.Itoa(pc.FeedLines))
	fields.Set("Drawer pin", strconv.Itoa(pc.DrawerPin))
	fields.Set("Busy policy", pc.BusyPolicy)
	fields.Set("Font size", strconv.FormatFloat(ps.config.Layout.FontSize, 'f', -1, 64))
	return fields
}

// send records the job, writes it through the transport and publishes
// its lifecycle events
func (ps *PrinterService) send(
	ctx context.Context,
	kind model.JobKind,
	queue string,
	data []byte,
	totals model.TransactionTotals,
	start time.Time,
) (*JobResult, error) {
	record := &model.JobRecord{
		ID:        uuid.New(),
		Kind:      kind,
		QueueID:   queue,
		Status:    model.JobStatusProcessing,
		CreatedAt: start,
	}
	if kind == model.JobKindReceipt {
		record.ItemsTotal = model.Some(totals.ItemsTotal)
		record.Total = totals.Total
	}

	if err := ps.jobRepo.Create(ctx, record); err != nil {
		ps.logger.Warn("Failed to record job", zap.String("job_id", record.ID.String()), zap.Error(err))
	}

	jobLogger := utils.NewJobLogger(ps.logger.Logger, string(kind), record.ID.String(), queue)
	jobLogger.Start(zap.Int("bytes", len(data)), zap.String("request_id", requestID(ctx)))
	ps.eventBus.Publish(model.NewJobEvent(model.EventJobStarted, record))

	sendErr := ps.transport.Send(ctx, queue, data)
	if sendErr != nil {
		record.Finish(model.JobStatusFailed, 0, sendErr)
		jobLogger.Error(sendErr)
		ps.eventBus.Publish(model.NewJobEvent(model.EventJobFailed, record))
	} else {
		record.Finish(model.JobStatusSuccess, len(data), nil)
		jobLogger.Success(len(data))
		ps.eventBus.Publish(model.NewJobEvent(model.EventJobCompleted, record))
	}

	if err := ps.jobRepo.Complete(context.WithoutCancel(ctx), record); err != nil {
		ps.logger.Warn("Failed to complete job record", zap.String("job_id", record.ID.String()), zap.Error(err))
	}
	ps.observe(kind, start, sendErr)

	if sendErr != nil {
		return nil, sendErr
	}
	return &JobResult{JobID: record.ID, QueueID: queue, Bytes: len(data)}, nil
}

func (ps *PrinterService) observe(kind model.JobKind, start time.Time, err error) {
	ps.metrics.JobFinished(string(kind), resultLabel(err), time.Since(start))
}

func (ps *PrinterService) queue(override string) string {
	return pick(override, ps.config.Printer.QueueID)
}

// resultLabel names the outcome of a job for metrics
func resultLabel(err error) string {
	var validationErr *model.ValidationError
	var renderErr *layout.RenderError

	switch {
	case err == nil:
		return "success"
	case errors.As(err, &validationErr):
		return "invalid"
	case errors.As(err, &renderErr):
		return "render_error"
	case errors.Is(err, transport.ErrNotFound):
		return "not_found"
	case errors.Is(err, transport.ErrBusy):
		return "busy"
	case errors.Is(err, transport.ErrWrite):
		return "write_error"
	default:
		return "error"
	}
}

type requestIDKey struct{}

// WithRequestID attaches the HTTP request id to ctx for job logs
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

func pickScale(override, fallback int) int {
	if override > 0 {
		return override
	}
	return fallback
}

func imageRef(path string, scale int) *model.ImageRef {
	if path == "" {
		return nil
	}
	return &model.ImageRef{Path: path, Scale: scale}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
