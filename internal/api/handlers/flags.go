package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/wonny/probe/backend/internal/contracts"
	"github.com/wonny/probe/backend/internal/financials"
	"github.com/wonny/probe/backend/internal/flags"
	"github.com/wonny/probe/backend/internal/observability/metrics"
	"github.com/wonny/probe/backend/pkg/logger"
)

// Upload error bodies. Clients match on these strings.
const (
	MsgNoFilePart      = "No file part"
	MsgNoSelectedFile  = "No selected file"
	MsgInvalidFileType = "Invalid file type. Only JSON files are allowed."
	MsgPayloadTooLarge = "Payload too large"
)

const uploadField = "file"

// FlagHandler serves flag evaluation endpoints
// ⭐ SSOT: 플래그 API 핸들러는 이 구조체에서만
type FlagHandler struct {
	engine   *flags.Engine
	metrics  *metrics.Metrics
	logger   *logger.Logger
	maxBytes int64
}

// NewFlagHandler creates a new flag handler. m may be nil.
func NewFlagHandler(engine *flags.Engine, m *metrics.Metrics, log *logger.Logger, maxBytes int64) *FlagHandler {
	return &FlagHandler{
		engine:   engine,
		metrics:  m,
		logger:   log,
		maxBytes: maxBytes,
	}
}

// Upload evaluates an uploaded {"data": {...}} JSON file
// POST /upload (multipart field "file")
func (h *FlagHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		h.rejectFormError(w, r, err)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.reject(w, "empty_filename", http.StatusBadRequest, MsgNoSelectedFile)
		return
	}
	if !strings.HasSuffix(header.Filename, ".json") {
		h.reject(w, "extension", http.StatusBadRequest, MsgInvalidFileType)
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read uploaded file")
		respondError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}

	doc, err := financials.DecodeEnvelopeBytes(raw)
	if err != nil {
		h.logger.WithError(err).WithField("filename", header.Filename).Warn("Upload rejected")
		h.reject(w, "decode", statusForError(err), err.Error())
		return
	}

	h.evaluate(w, r, "upload", doc)
}

// Evaluate evaluates a JSON request body {"data": {...}}
// POST /api/v1/flags/evaluate[?explain=true]
func (h *FlagHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	doc, err := financials.DecodeEnvelope(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, "too_large", http.StatusRequestEntityTooLarge, MsgPayloadTooLarge)
			return
		}
		h.reject(w, "decode", statusForError(err), err.Error())
		return
	}

	h.evaluate(w, r, "json", doc)
}

func (h *FlagHandler) evaluate(w http.ResponseWriter, r *http.Request, source string, doc contracts.FinancialDocument) {
	explain, _ := strconv.ParseBool(r.URL.Query().Get("explain"))

	bd, err := h.engine.Explain(r.Context(), source, doc)
	if err != nil {
		h.logger.WithError(err).Error("Failed to evaluate flags")
		respondError(w, statusForError(err), err.Error())
		return
	}

	if explain {
		respondJSON(w, http.StatusOK, bd)
		return
	}
	respondJSON(w, http.StatusOK, bd.Result)
}

// rejectFormError classifies multipart parsing failures
func (h *FlagHandler) rejectFormError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.reject(w, "too_large", http.StatusRequestEntityTooLarge, MsgPayloadTooLarge)
		return
	}

	// multipart puts a part with filename="" into Value, not File
	if r.MultipartForm != nil {
		if _, ok := r.MultipartForm.Value[uploadField]; ok {
			h.reject(w, "empty_filename", http.StatusBadRequest, MsgNoSelectedFile)
			return
		}
	}

	h.reject(w, "no_file", http.StatusBadRequest, MsgNoFilePart)
}

func (h *FlagHandler) reject(w http.ResponseWriter, reason string, status int, message string) {
	h.metrics.RecordRejected(reason)
	respondError(w, status, message)
}
