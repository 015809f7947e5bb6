package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/exporter"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/service"
)

// Multipart form field names.
const (
	FieldFile      = "file"
	FieldName      = "advertiser_name"
	FieldBrand     = "advertiser_brand"
	FieldMarket    = "advertiser_market"
	FieldThreshold = "threshold"
	FieldFormat    = "format"
)

// Artifact path values for the download route.
const (
	ArtifactFull      = "full"
	ArtifactNegatives = "negatives"
)

const (
	// formOverhead is body headroom for the text fields and multipart framing.
	formOverhead    = 64 << 10
	multipartMemory = 32 << 20
)

var errThresholdNotNumber = errors.New("threshold must be a number")

// Defaults are applied to form fields the operator leaves empty.
type Defaults struct {
	Threshold      float64
	Format         exporter.Format
	MaxUploadBytes int64
	PreviewLimit   int
}

type ScoreHandler struct {
	scorer   *service.Scorer
	defaults Defaults
	logger   infralogger.Logger
}

func NewScoreHandler(scorer *service.Scorer, defaults Defaults, log infralogger.Logger) *ScoreHandler {
	return &ScoreHandler{
		scorer:   scorer,
		defaults: defaults,
		logger:   log,
	}
}

// DownloadJSON is one base64-encoded artifact in a score response.
type DownloadJSON struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// ScoreResponse is the JSON body of POST /api/v1/score.
type ScoreResponse struct {
	RunID            string                  `json:"run_id"`
	Message          string                  `json:"message"`
	FlaggedCount     int                     `json:"flagged_count"`
	TotalCount       int                     `json:"total_count"`
	Threshold        float64                 `json:"threshold"`
	Negatives        []relevance.ScoredRow   `json:"negatives"`
	PreviewTruncated bool                    `json:"preview_truncated"`
	Downloads        map[string]DownloadJSON `json:"downloads"`
}

// Score runs a report and returns the flagged preview plus both artifacts.
func (h *ScoreHandler) Score(c *gin.Context) {
	resp, ok := h.run(c)
	if !ok {
		return
	}

	preview := resp.Result.Negatives
	truncated := false
	if h.defaults.PreviewLimit > 0 && len(preview) > h.defaults.PreviewLimit {
		preview = preview[:h.defaults.PreviewLimit]
		truncated = true
	}

	c.JSON(http.StatusOK, ScoreResponse{
		RunID:            resp.RunID.String(),
		Message:          resp.Message,
		FlaggedCount:     len(resp.Result.Negatives),
		TotalCount:       len(resp.Result.Full),
		Threshold:        resp.Result.Threshold,
		Negatives:        preview,
		PreviewTruncated: truncated,
		Downloads: map[string]DownloadJSON{
			ArtifactFull:      downloadJSON(resp.Full, exporter.FullBaseName),
			ArtifactNegatives: downloadJSON(resp.Negatives, exporter.NegativesBaseName),
		},
	})
}

// Download runs a report and streams one artifact as an attachment.
func (h *ScoreHandler) Download(c *gin.Context) {
	artifact := c.Param("artifact")
	if artifact != ArtifactFull && artifact != ArtifactNegatives {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown artifact", "artifact": artifact})
		return
	}

	resp, ok := h.run(c)
	if !ok {
		return
	}

	file, base := resp.Full, exporter.FullBaseName
	if artifact == ArtifactNegatives {
		file, base = resp.Negatives, exporter.NegativesBaseName
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Filename(base)))
	c.Header("X-Flagged-Count", strconv.Itoa(len(resp.Result.Negatives)))
	c.Data(http.StatusOK, file.MIMEType, file.Data)
}

func downloadJSON(a *exporter.Artifact, base string) DownloadJSON {
	return DownloadJSON{Filename: a.Filename(base), MIMEType: a.MIMEType, Data: a.Data}
}

// run parses the form, runs the scorer and writes any error response.
func (h *ScoreHandler) run(c *gin.Context) (*service.Response, bool) {
	log := infralogger.FromContextOr(c.Request.Context(), h.logger)

	req, status, err := h.parseRequest(c)
	if err != nil {
		log.Debug("Invalid score request", infralogger.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}

	resp, err := h.scorer.Run(c.Request.Context(), req)
	if err != nil {
		if service.IsUserError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to score report"})
		return nil, false
	}
	return resp, true
}

func (h *ScoreHandler) parseRequest(c *gin.Context) (service.Request, int, error) {
	req := service.Request{Threshold: h.defaults.Threshold, Format: h.defaults.Format}

	if h.defaults.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.defaults.MaxUploadBytes+formOverhead)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		switch {
		case isTooLarge(err):
			return req, http.StatusRequestEntityTooLarge, h.tooLargeError()
		case errors.Is(err, http.ErrNotMultipart):
			// Plain forms carry no file; the scorer reports incomplete input.
		default:
			return req, http.StatusBadRequest, fmt.Errorf("read form: %w", err)
		}
	}

	req.Profile = relevance.Profile{
		Name:   c.PostForm(FieldName),
		Brand:  c.PostForm(FieldBrand),
		Market: c.PostForm(FieldMarket),
	}

	if fileHeader, err := c.FormFile(FieldFile); err == nil {
		if h.defaults.MaxUploadBytes > 0 && fileHeader.Size > h.defaults.MaxUploadBytes {
			return req, http.StatusRequestEntityTooLarge, h.tooLargeError()
		}
		if req.File, err = readUpload(fileHeader); err != nil {
			return req, http.StatusBadRequest, err
		}
		req.Filename = fileHeader.Filename
	}

	if raw := strings.TrimSpace(c.PostForm(FieldThreshold)); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, http.StatusBadRequest, errThresholdNotNumber
		}
		req.Threshold = threshold
	}

	if raw := c.PostForm(FieldFormat); strings.TrimSpace(raw) != "" {
		format, err := exporter.ParseFormat(raw)
		if err != nil {
			return req, http.StatusBadRequest, err
		}
		req.Format = format
	}

	return req, http.StatusOK, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func (h *ScoreHandler) tooLargeError() error {
	return fmt.Errorf("file exceeds the %d byte upload limit", h.defaults.MaxUploadBytes)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
