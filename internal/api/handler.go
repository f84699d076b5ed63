package api

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-splitter/internal/extractor"
	"github.com/insightdelivered/statement-splitter/internal/logger"
	"github.com/insightdelivered/statement-splitter/internal/models"
	"github.com/insightdelivered/statement-splitter/internal/parser"
	"github.com/insightdelivered/statement-splitter/internal/writer"
)

// UploadResponse is the JSON response from the /upload endpoint. Income
// and Outgoing hold complete CSV documents, or "" when a side is empty.
type UploadResponse struct {
	Income     string             `json:"income"`
	Outgoing   string             `json:"outgoing"`
	Period     string             `json:"period"`
	Bank       string             `json:"bank"`
	Count      int                `json:"count"`
	DebugLines []models.DebugLine `json:"debugLines,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	log     zerolog.Logger
	version string
}

func NewHandler(log zerolog.Logger, version string) *Handler {
	return &Handler{log: log, version: version}
}

// NewApp builds the fiber app with middleware and routes. bodyLimitMB caps
// the upload size.
func NewApp(h *Handler, bodyLimitMB int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "statement-splitter",
		BodyLimit:             bodyLimitMB << 20,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(h.requestID)
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Get("/banks", h.HandleBanks)
	app.Post("/upload", h.HandleUpload)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.version,
	})
}

func (h *Handler) HandleBanks(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"banks": parser.SupportedBanks()})
}

// HandleUpload parses an uploaded statement and answers with its income and
// outgoing CSVs, or with an xlsx workbook when format=xlsx.
//
// Form fields: file (required), bank (required), extractedText (text the
// client already pulled out of the PDF; used instead of server extraction),
// format.
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	log := logger.FromContext(c.UserContext())

	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No file uploaded")
	}

	bankType, err := parser.ParseBank(c.FormValue("bank"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	p, err := parser.New(bankType)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	doc, err := loadDocument(fh, p.Layout(), c.FormValue("extractedText"))
	if err != nil {
		log.Warn().Err(err).Str("file", fh.Filename).Msg("extraction failed")
		return parseFailure(err)
	}

	st, err := p.Parse(doc)
	if err != nil {
		log.Warn().Err(err).Str("file", fh.Filename).Msg("parse failed")
		return parseFailure(err)
	}
	part := models.Split(st.Entries)

	log.Info().
		Str("bank", string(bankType)).
		Str("period", st.Period).
		Int("income", len(part.Income)).
		Int("outgoing", len(part.Outgoing)).
		Msg("statement parsed")

	if strings.EqualFold(c.FormValue("format"), "xlsx") {
		var buf bytes.Buffer
		if err := (&writer.XLSXWriter{}).Write(&buf, part); err != nil {
			return err
		}
		c.Attachment(st.Period + ".xlsx")
		return c.Send(buf.Bytes())
	}

	income, outgoing, err := renderCSV(part)
	if err != nil {
		return err
	}
	return c.JSON(UploadResponse{
		Income:     income,
		Outgoing:   outgoing,
		Period:     st.Period,
		Bank:       p.BankName(),
		Count:      part.Len(),
		DebugLines: st.DebugLines,
	})
}

func loadDocument(fh *multipart.FileHeader, layout models.Layout, extractedText string) (*models.Document, error) {
	if strings.TrimSpace(extractedText) != "" {
		return extractor.DocumentFromText(layout, extractedText), nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return extractor.ExtractDocument(layout, f, fh.Size)
}

// renderCSV renders each non-empty side of the partition as a CSV document.
func renderCSV(part models.Partition) (income, outgoing string, err error) {
	w := &writer.CSVWriter{}
	if len(part.Income) > 0 {
		var buf bytes.Buffer
		if err := w.WriteIncome(&buf, part.Income); err != nil {
			return "", "", err
		}
		income = buf.String()
	}
	if len(part.Outgoing) > 0 {
		var buf bytes.Buffer
		if err := w.WriteOutgoing(&buf, part.Outgoing); err != nil {
			return "", "", err
		}
		outgoing = buf.String()
	}
	return income, outgoing, nil
}

func parseFailure(err error) error {
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to parse file: "+err.Error())
}

// requestID tags each request with an id, echoed in X-Request-ID, and puts
// a logger carrying it on the request context.
func (h *Handler) requestID(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)

	log := logger.WithFields(h.log, map[string]any{"request_id": id})
	c.SetUserContext(logger.WithContext(c.UserContext(), log))

	start := time.Now()
	err := c.Next()
	ev := log.Debug()
	if err != nil {
		ev = log.Info().Err(err)
	}
	ev.Str("method", c.Method()).
		Str("path", c.Path()).
		Dur("took", time.Since(start)).
		Msg("request")
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}
