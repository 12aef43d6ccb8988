package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/SscSPs/ifm_report_app/internal/apperrors"
	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	portssvc "github.com/SscSPs/ifm_report_app/internal/core/ports/services"
	"github.com/SscSPs/ifm_report_app/internal/dto"
	"github.com/SscSPs/ifm_report_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReportIDHeader carries the report run id on file downloads.
const ReportIDHeader = "X-Report-ID"

// ReportRoute is the registered route of report generation. The report
// service emits the analytics event for it.
const ReportRoute = "/api/v1/reports/ifm"

// reportHandler handles HTTP requests that generate IFM reports.
type reportHandler struct {
	reportService  portssvc.ReportSvcFacade
	maxUploadBytes int64
}

// newReportHandler creates a new reportHandler.
func newReportHandler(rs portssvc.ReportSvcFacade, maxUploadBytes int64) *reportHandler {
	return &reportHandler{
		reportService:  rs,
		maxUploadBytes: maxUploadBytes,
	}
}

// registerReportRoutes registers routes related to report generation.
// Extra handlers (rate limiting) run before generation.
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade, maxUploadBytes int64, guards ...gin.HandlerFunc) {
	h := newReportHandler(reportService, maxUploadBytes)

	reports := rg.Group("/reports")
	{
		reports.POST("/ifm", append(guards, h.generateIFMReport)...)
	}
}

// generateIFMReport godoc
// @Summary Generate an IFM report
// @Description Enriches the BO extract with the mapping workbook, merges last month's report, converts to USD and aggregates by invoice and vendor.
// @Description csv and xlsx formats download as attachments; json returns rows and run statistics.
// @Tags reports
// @Accept multipart/form-data
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce json
// @Param bo_file formData file true "BO extract (.xlsx, .xls or .csv)"
// @Param mapping_file formData file true "Mapping workbook with vendor, receiving entity and country area sheets"
// @Param last_month_file formData file false "Last month's IFM report"
// @Param exchange_rate formData number false "Exchange rate to USD for non-USD amounts" default(1.0)
// @Param format formData string false "Output format" Enums(csv, xlsx, json) default(csv)
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed input or invalid exchange rate"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 413 {object} dto.ErrorResponse "Upload too large"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/ifm [post]
func (h *reportHandler) generateIFMReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if h.maxUploadBytes > 0 {
		if c.Request.ContentLength > h.maxUploadBytes {
			logger.Warn("Report upload exceeds size limit", slog.Int64("limit_bytes", h.maxUploadBytes),
				slog.Int64("content_length", c.Request.ContentLength))
			c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: apperrors.ErrPayloadTooLarge.Error()})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var form dto.GenerateReportRequest
	if err := c.ShouldBind(&form); err != nil {
		if isTooLarge(err) {
			logger.Warn("Report upload exceeds size limit", slog.Int64("limit_bytes", h.maxUploadBytes))
			c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: apperrors.ErrPayloadTooLarge.Error()})
			return
		}
		logger.Warn("Failed to bind report form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	format, err := domain.ParseExportFormat(form.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	req := domain.ReportRequest{}
	if rate := strings.TrimSpace(form.ExchangeRate); rate != "" {
		d, err := decimal.NewFromString(rate)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid exchange rate: " + rate})
			return
		}
		req.ExchangeRate = decimal.NewNullDecimal(d)
	}

	uploads := []struct {
		header *multipart.FileHeader
		dst    *domain.SourceFile
	}{
		{form.BOFile, &req.Extract},
		{form.MappingFile, &req.Mapping},
		{form.LastMonthFile, &req.Historical},
	}
	for _, u := range uploads {
		if u.header == nil {
			continue
		}
		file, err := readUpload(u.header)
		if err != nil {
			if isTooLarge(err) {
				c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: apperrors.ErrPayloadTooLarge.Error()})
				return
			}
			logger.Error("Failed to read uploaded file", slog.String("file", u.header.Filename), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read uploaded file " + u.header.Filename})
			return
		}
		*u.dst = file
	}

	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		req.RequestedBy = userID
	}

	logger.Info("Received request to generate IFM report",
		slog.String("bo_file", req.Extract.Name),
		slog.String("mapping_file", req.Mapping.Name),
		slog.String("last_month_file", req.Historical.Name),
		slog.String("format", string(format)))

	report, err := h.reportService.GenerateReport(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrMalformedInput):
			logger.Warn("Report inputs rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to generate report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to generate report"})
		}
		return
	}

	if format == domain.FormatJSON {
		c.JSON(http.StatusOK, dto.ToReportResponse(report))
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.ExportReport(c.Request.Context(), &buf, report, format); err != nil {
		logger.Error("Failed to encode report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to encode report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(format)))
	c.Header(ReportIDHeader, report.ReportID)
	c.Data(http.StatusOK, h.reportService.ContentType(format), buf.Bytes())
}

func readUpload(header *multipart.FileHeader) (domain.SourceFile, error) {
	f, err := header.Open()
	if err != nil {
		return domain.SourceFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.SourceFile{}, err
	}
	return domain.SourceFile{Name: header.Filename, Data: data}, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge)
}
