package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-splitter/internal/writer"
)

func setupTestApp() *fiber.App {
	return NewApp(NewHandler(zerolog.Nop(), "test"), 1)
}

// uploadRequest builds a multipart POST to /upload. A nil file omits the
// file part entirely.
func uploadRequest(t *testing.T, file []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if file != nil {
		part, err := mw.CreateFormFile("file", "statement.pdf")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}

const hsbcText = `HSBC UK Bank plc
01 Jan 23 BALANCEBROUGHTFORWARD 1,000.00
01 Jan 23 CR SALARY EMPLOYER LTD
5,000.00 REF123
DD SKY UK LIMITED 45.00 4,955.00
02 Jan 23 CHQ 000123 45.00`

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "fiber", result["engine"])
	assert.Equal(t, "test", result["version"])
}

func TestBanksEndpoint(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest(http.MethodGet, "/banks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))

	result := decode[map[string][]string](t, resp)
	assert.Equal(t, []string{"HSBC", "Chase"}, result["banks"])
}

func TestUploadRequiresFile(t *testing.T) {
	app := setupTestApp()

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"no body", func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/upload", nil)
			req.Header.Set("Content-Type", "multipart/form-data; boundary=----test")
			return req
		}()},
		{"bank without file", uploadRequest(t, nil, map[string]string{"bank": "HSBC"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "No file uploaded", decode[ErrorResponse](t, resp).Error)
		})
	}
}

func TestUploadRejectsUnknownBank(t *testing.T) {
	app := setupTestApp()

	for _, bank := range []string{"", "Barclays"} {
		t.Run(bank, func(t *testing.T) {
			resp, err := app.Test(uploadRequest(t, []byte("%PDF"), map[string]string{"bank": bank}))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, decode[ErrorResponse](t, resp).Error, "unsupported bank")
		})
	}
}

func TestUploadHSBCText(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(uploadRequest(t, []byte("ignored"), map[string]string{
		"bank":          "HSBC",
		"extractedText": hsbcText,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	result := decode[UploadResponse](t, resp)
	assert.Equal(t, "HSBC", result.Bank)
	assert.Equal(t, "JAN23", result.Period)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t,
		"Date,Description,Payed In,Additional Info\n1,SALARY EMPLOYER LTD,5000.00,REF123\n",
		result.Income)
	assert.True(t, strings.HasPrefix(result.Outgoing, "Date,Description,Type,Cheque Number,Payed Out\n"))
	assert.Contains(t, result.Outgoing, "1,SKY UK LIMITED,Direct Debit,,45.00")
	assert.Contains(t, result.Outgoing, "2,,Cheque,000123,45.00")
	assert.NotEmpty(t, result.DebugLines)
}

func TestUploadChaseRowsOutgoingOnly(t *testing.T) {
	app := setupTestApp()

	text := "Date\tTransaction details\tAmount\n01 Jan 2023\tPurchase\t-£12.50\n"
	resp, err := app.Test(uploadRequest(t, []byte("ignored"), map[string]string{
		"bank":          "chase",
		"extractedText": text,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode[UploadResponse](t, resp)
	assert.Equal(t, "Chase", result.Bank)
	assert.Empty(t, result.Income, "an empty side is an empty string")
	assert.Equal(t, "Date,Description,Type,Cheque Number,Payed Out\n1,Purchase,Purchase,,12.50\n", result.Outgoing)
}

func TestUploadKeepsClientRequestID(t *testing.T) {
	app := setupTestApp()

	req := uploadRequest(t, []byte("ignored"), map[string]string{"bank": "HSBC", "extractedText": hsbcText})
	req.Header.Set(fiber.HeaderXRequestID, "client-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "client-42", resp.Header.Get(fiber.HeaderXRequestID))
}

func TestUploadXLSX(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(uploadRequest(t, []byte("ignored"), map[string]string{
		"bank":          "HSBC",
		"extractedText": hsbcText,
		"format":        "xlsx",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `JAN23.xlsx`)

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(writer.OutgoingSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestUploadParseFailure(t *testing.T) {
	app := setupTestApp()

	tests := []struct {
		name   string
		file   []byte
		fields map[string]string
	}{
		{"malformed cheque line", []byte("ignored"), map[string]string{"bank": "HSBC", "extractedText": "01 Jan 23 CHQ 000123"}},
		{"short table row", []byte("ignored"), map[string]string{"bank": "Chase", "extractedText": "01 Jan 2023\tPurchase\n"}},
		{"not a PDF", []byte("plain bytes, no PDF here"), map[string]string{"bank": "HSBC"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(uploadRequest(t, tt.file, tt.fields))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
			assert.True(t, strings.HasPrefix(decode[ErrorResponse](t, resp).Error, "Failed to parse file: "))
		})
	}
}

func TestPanicRecovered(t *testing.T) {
	app := setupTestApp()
	app.Get("/boom", func(*fiber.Ctx) error { panic("kaboom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, decode[ErrorResponse](t, resp).Error, "kaboom")
}
