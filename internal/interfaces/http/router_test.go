package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidadcq-api/internal/application/auth"
	"github.com/jhoicas/contabilidadcq-api/internal/application/catalogo"
	"github.com/jhoicas/contabilidadcq-api/internal/application/comentarios"
	"github.com/jhoicas/contabilidadcq-api/internal/application/distribucion"
	"github.com/jhoicas/contabilidadcq-api/internal/application/documentos"
	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/application/factura"
	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/memory"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/contabilidadcq-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/contabilidadcq-api/pkg/jwt"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

const testAPIKey = "llave-integracion"

type apiFixture struct {
	app     *fiber.App
	areaAlm string
	userAlm string
	cc      string
	co      string

	facturacion  string
	responsable  string
	contabilidad string
	tesoreria    string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()

	st := memory.NewStore()
	areaFac := st.AddArea("Facturación", entity.AreaCodeFacturacion)
	areaCon := st.AddArea("Contabilidad", entity.AreaCodeContabilidad)
	areaTes := st.AddArea("Tesorería", entity.AreaCodeTesoreria)
	fx := &apiFixture{areaAlm: st.AddArea("Almacén", "alm")}
	fx.userAlm = st.AddUser(entity.User{Email: "jefe.almacen@cq.co", Name: "Jefe Almacén", Role: entity.RoleResponsable, AreaID: &fx.areaAlm, IsActive: true})
	fx.cc = st.AddCentroCosto("CC-01")
	fx.co = st.AddCentroOperacion(fx.cc, "CO-01")

	refs, err := workflow.ResolveRefs(ctx, st.Repos().Catalogo, workflow.AreaCodes{
		Facturacion:  entity.AreaCodeFacturacion,
		Contabilidad: entity.AreaCodeContabilidad,
		Tesoreria:    entity.AreaCodeTesoreria,
	}, "")
	require.NoError(t, err)
	flow := workflow.NewUseCase(st, domainwf.NewMachine(refs), log)
	objects, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	fx.app = fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(fx.app, apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(st.Repos().Users, st.Repos().Catalogo, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		WorkflowUC:     flow,
		FacturaUC:      factura.NewUseCase(st, flow, nil, nil, log),
		DistribucionUC: distribucion.NewUseCase(st, log),
		DocumentosUC:   documentos.NewUseCase(st, objects, documentos.Options{MaxBytes: 1 << 20}, log),
		ComentariosUC:  comentarios.NewUseCase(st.Repos().Facturas, st.Comentarios()),
		CatalogoUC:     catalogo.NewUseCase(st.Repos().Catalogo, st.Repos().Users, refs),
		JWTSecret:      testJWTSecret,
		IntakeAPIKey:   testAPIKey,
	})

	fx.facturacion = bearer(t, "u-fac", areaFac, entity.RoleFacturacion)
	fx.responsable = bearer(t, fx.userAlm, fx.areaAlm, entity.RoleResponsable)
	fx.contabilidad = bearer(t, "u-con", areaCon, entity.RoleContabilidad)
	fx.tesoreria = bearer(t, "u-tes", areaTes, entity.RoleTesoreria)
	return fx
}

func bearer(t *testing.T, userID, areaID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, areaID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (fx *apiFixture) do(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := fx.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (fx *apiFixture) upload(t *testing.T, facturaID, docType, auth string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("doc_type", docType))
	part, err := w.CreateFormFile("file", docType+".pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 " + docType))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/facturas/"+facturaID+"/documentos", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", auth)
	resp, err := fx.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (fx *apiFixture) ingresar(t *testing.T, numero string) dto.FacturaResponse {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"proveedor":                      "Distribuidora Andina SAS",
		"numero_factura":                 numero,
		"total":                          1250000,
		"intervalo_entrega_contabilidad": string(entity.Intervalo1Semana),
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/facturas", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apphttp.HeaderAPIKey, testAPIKey)
	resp, err := fx.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.FacturaResponse](t, resp)
}

func TestRouter_FlujoCompleto(t *testing.T) {
	fx := newAPIFixture(t)
	f := fx.ingresar(t, "FE-2001")
	assert.Equal(t, entity.EstadoRecibida, f.EstadoID)
	base := "/api/facturas/" + f.ID

	resp := fx.do(t, http.MethodPost, base+"/asignar", fx.facturacion, dto.AsignarRequest{AreaID: fx.areaAlm, ResponsableUserID: fx.userAlm})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tr := decode[dto.TransitionResponse](t, resp)
	assert.Equal(t, entity.EstadoAsignada, tr.Factura.EstadoID)
	assert.Equal(t, fx.areaAlm, tr.Factura.AreaID)

	// Sin CC/CO el envío se rechaza con el reporte agrupado.
	resp = fx.do(t, http.MethodPost, base+"/enviar-contabilidad", fx.responsable, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	verr := decode[dto.ValidationErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION_FAILED", verr.Code)
	assert.Equal(t, string(domainwf.TransitionEnviarAContabilidad), verr.Transition)
	assert.ElementsMatch(t, []string{"centro_costo_id", "centro_operacion_id"}, verr.MissingFields)

	resp = fx.do(t, http.MethodPatch, base+"/centros", fx.responsable, dto.UpdateCentrosRequest{CentroCostoID: &fx.cc, CentroOperacionID: &fx.co})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = fx.do(t, http.MethodGet, base+"/validar", fx.responsable, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.ReportResponse](t, resp).OK)

	resp = fx.do(t, http.MethodPost, base+"/enviar-contabilidad", fx.responsable, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tr = decode[dto.TransitionResponse](t, resp)
	assert.Equal(t, entity.EstadoEnContabilidad, tr.Factura.EstadoID)
	require.NotNil(t, tr.Report)
	assert.True(t, tr.Report.OK)

	resp = fx.do(t, http.MethodPost, base+"/enviar-tesoreria", fx.contabilidad, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = fx.do(t, http.MethodPost, base+"/cerrar", fx.tesoreria, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	verr = decode[dto.ValidationErrorResponse](t, resp)
	assert.ElementsMatch(t, []string{"PEC", "EC", "PCE"}, verr.MissingFiles)

	for _, d := range []string{"PEC", "EC", "PCE"} {
		resp = fx.upload(t, f.ID, d, fx.tesoreria)
		require.Equal(t, http.StatusCreated, resp.StatusCode, d)
		resp.Body.Close()
	}
	resp = fx.upload(t, f.ID, "EC", fx.tesoreria)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "solo OC admite varios archivos")
	resp.Body.Close()

	resp = fx.do(t, http.MethodPost, base+"/cerrar", fx.tesoreria, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tr = decode[dto.TransitionResponse](t, resp)
	assert.Equal(t, entity.EstadoFinalizada, tr.Factura.EstadoID)

	resp = fx.do(t, http.MethodPost, base+"/cerrar", fx.tesoreria, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "GUARD_FAILED", decode[dto.ErrorResponse](t, resp).Code)

	resp = fx.do(t, http.MethodGet, base+"/asignaciones", fx.facturacion, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.AsignacionResponse](t, resp), 1)
}

func TestRouter_ErroresHTTP(t *testing.T) {
	fx := newAPIFixture(t)
	f := fx.ingresar(t, "FE-2002")
	base := "/api/facturas/" + f.ID

	t.Run("rol sin acceso a la transición", func(t *testing.T) {
		resp := fx.do(t, http.MethodPost, base+"/cerrar", fx.contabilidad, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})
	t.Run("guarda de estado", func(t *testing.T) {
		resp := fx.do(t, http.MethodPost, base+"/enviar-tesoreria", fx.contabilidad, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "GUARD_FAILED", decode[dto.ErrorResponse](t, resp).Code)
	})
	t.Run("factura inexistente", func(t *testing.T) {
		resp := fx.do(t, http.MethodGet, "/api/facturas/00000000-0000-0000-0000-00000000beef", fx.facturacion, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
	t.Run("duplicada", func(t *testing.T) {
		raw := []byte(`{"proveedor":"Distribuidora Andina SAS","numero_factura":"FE-2002","total":10}`)
		req := httptest.NewRequest(http.MethodPost, "/api/facturas", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", fx.facturacion)
		resp, err := fx.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)
	})
	t.Run("API key inválida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/facturas", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(apphttp.HeaderAPIKey, "otra")
		resp, err := fx.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
	t.Run("sin token", func(t *testing.T) {
		resp := fx.do(t, http.MethodGet, "/api/facturas", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
	t.Run("transición desconocida al validar", func(t *testing.T) {
		resp := fx.do(t, http.MethodGet, base+"/validar?transition=aprobar", fx.facturacion, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
	t.Run("motivo corto", func(t *testing.T) {
		resp := fx.do(t, http.MethodPost, base+"/asignar", fx.facturacion, dto.AsignarRequest{AreaID: fx.areaAlm, ResponsableUserID: fx.userAlm})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
		resp = fx.do(t, http.MethodPost, base+"/devolver-facturacion", fx.responsable, dto.DevolucionRequest{Motivo: "corto"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
	t.Run("distribución que no suma 100", func(t *testing.T) {
		body := map[string]any{"lineas": []map[string]any{
			{"centro_costo_id": fx.cc, "centro_operacion_id": fx.co, "porcentaje": 60},
		}}
		resp := fx.do(t, http.MethodPut, base+"/distribucion", fx.responsable, body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		out := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "INVARIANT_VIOLATION", out.Code)
		assert.NotEmpty(t, out.Reasons)
	})
}

func TestRouter_Catalogos(t *testing.T) {
	fx := newAPIFixture(t)

	resp := fx.do(t, http.MethodGet, "/api/catalogos/areas", fx.facturacion, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	areas := decode[[]dto.AreaResponse](t, resp)
	require.Len(t, areas, 4)
	for _, a := range areas {
		assert.Equal(t, a.Code == "alm", a.Responsable, a.Code)
	}

	resp = fx.do(t, http.MethodGet, "/api/catalogos/areas/"+fx.areaAlm+"/usuarios", fx.facturacion, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[[]dto.UserResponse](t, resp)
	require.Len(t, users, 1)
	assert.Equal(t, fx.userAlm, users[0].ID)

	resp = fx.do(t, http.MethodGet, "/api/catalogos/centros-operacion?centro_costo_id="+fx.cc, fx.responsable, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.CentroOperacionResponse](t, resp), 1)
}
