package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woped/bpmn-pnml-transformer/errs"
)

const bpmnFixture = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL">
  <bpmn:process id="p1" isExecutable="true">
    <bpmn:startEvent id="se"/>
    <bpmn:task id="t1" name="Task"/>
    <bpmn:endEvent id="ee"/>
    <bpmn:sequenceFlow id="f1" sourceRef="se" targetRef="t1"/>
    <bpmn:sequenceFlow id="f2" sourceRef="t1" targetRef="ee"/>
  </bpmn:process>
</bpmn:definitions>`

const pnmlFixture = `<?xml version="1.0" encoding="UTF-8"?>
<pnml>
  <net id="n1">
    <place id="p1"/>
    <transition id="t1"><name><text>Task</text></name></transition>
    <place id="p2"/>
    <arc id="a1" source="p1" target="t1"/>
    <arc id="a2" source="t1" target="p2"/>
  </net>
</pnml>`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(&Config{Port: "0", ForceStdXML: "true"})
}

func postForm(t *testing.T, s *Server, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	t.Run("plain", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["healthy"])
	})

	t.Run("message echoed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health?message=hi", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "hi", body["message"])
	})

	t.Run("unknown parameter rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health?other=x", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransformBPMNToPNML(t *testing.T) {
	s := newTestServer(t)
	rec := postForm(t, s, "/transform?direction=bpmntopnml", url.Values{"bpmn": {bpmnFixture}})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["pnml"], "<pnml>")
	assert.Contains(t, body["pnml"], `id="t1"`)
}

func TestTransformBPMNToWorkflowNet(t *testing.T) {
	s := newTestServer(t)
	rec := postForm(t, s, "/transform?direction=bpmntopnml", url.Values{
		"bpmn":             {bpmnFixture},
		"isTargetWorkflow": {"true"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["pnml"], "<pnml>")
}

func TestTransformPNMLToBPMN(t *testing.T) {
	s := newTestServer(t)
	rec := postForm(t, s, "/transform?direction=pnmltobpmn", url.Values{"pnml": {pnmlFixture}})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["bpmn"], "definitions")
	assert.Contains(t, body["bpmn"], `name="Task"`)
}

func TestTransformUnknownDirection(t *testing.T) {
	s := newTestServer(t)
	rec := postForm(t, s, "/transform?direction=sideways", url.Values{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "[4]")
}

func TestTransformInvalidInput(t *testing.T) {
	s := newTestServer(t)
	rec := postForm(t, s, "/transform?direction=pnmltobpmn", url.Values{"pnml": {"<broken"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "[11]")
}

func TestTransformUnsupportedElement(t *testing.T) {
	s := newTestServer(t)
	content := strings.Replace(bpmnFixture, `<bpmn:task id="t1" name="Task"/>`,
		`<bpmn:sendTask id="t1" name="Task"/>`, 1)
	rec := postForm(t, s, "/transform?direction=bpmntopnml", url.Values{"bpmn": {content}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "[1]")
}

func TestTokenCheck(t *testing.T) {
	t.Run("quota exhausted", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer upstream.Close()

		s := New(&Config{Port: "0", ForceStdXML: "true", CheckTokenURL: upstream.URL})
		rec := postForm(t, s, "/transform?direction=pnmltobpmn", url.Values{"pnml": {pnmlFixture}})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "[14]")
	})

	t.Run("tokens available", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer upstream.Close()

		s := New(&Config{Port: "0", ForceStdXML: "true", CheckTokenURL: upstream.URL})
		rec := postForm(t, s, "/transform?direction=pnmltobpmn", url.Values{"pnml": {pnmlFixture}})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/transform", nil)
	req.Header.Set("Origin", "https://woped.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoadConfigRequiresForceStdXML(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("FORCE_STD_XML", "true")
	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9999", config.Port)
	assert.Equal(t, "true", config.ForceStdXML)

	require.NoError(t, os.Unsetenv("FORCE_STD_XML"))
	_, err = LoadConfig()
	known, ok := errs.AsKnown(err)
	require.True(t, ok)
	assert.Equal(t, 2, known.ID)
}
