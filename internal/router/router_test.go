package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"csv2coam/internal/app"
	"csv2coam/internal/coam"
	"csv2coam/internal/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newTestEngine() http.Handler {
	flow := &app.ConvertFlow{
		Settings: coam.DefaultSettings(),
		CSV: &source.CSVReader{Detect: func([]byte) (string, error) {
			return "utf-8", nil
		}},
		Clock: func() time.Time { return time.Date(2024, 3, 5, 8, 0, 0, 0, time.Local) },
	}
	handler := NewConvertHandler(flow.Run, 1, nil)
	return NewEngine(handler, prometheus.NewRegistry())
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestConvertReturnsDocument(t *testing.T) {
	csv := "设备编号,安装位置,手机号\nA1,东门,13800000000\n,空行,\nA2,西门,\n"
	body, contentType := multipartBody(t, "devices.csv", csv, map[string]string{"region_code": "310000"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestEngine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var doc struct {
		Objects []struct {
			Code string `json:"coamObjectCode"`
		} `json:"objectPushVoList"`
		Points     []map[string]any `json:"pointPushVoList"`
		Equipments []map[string]any `json:"equipmentPushVoList"`
		Relations  []map[string]any `json:"equipRlPushVoList"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Objects, 1)
	require.Equal(t, "310000_gas_OBJ_001", doc.Objects[0].Code)
	require.Len(t, doc.Points, 2)
	require.Len(t, doc.Equipments, 2)
	require.Len(t, doc.Relations, 2)
	require.Contains(t, rec.Body.String(), "东门监测点")
}

func TestConvertWithoutRowsIs422(t *testing.T) {
	body, contentType := multipartBody(t, "empty.csv", "设备编号,安装位置\n,东门\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestEngine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.JSONEq(t, `{"error":"没有找到有效的设备数据"}`, rec.Body.String())
}

func TestConvertWithoutFileIs400(t *testing.T) {
	body, contentType := multipartBody(t, "", "", map[string]string{"region_code": "310000"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestEngine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthzAndMetrics(t *testing.T) {
	engine := newTestEngine()

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
