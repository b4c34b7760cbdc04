package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"env-report/internal/dto"
	"env-report/internal/pkg/config"
	"env-report/internal/pkg/logger"
	pkgErrors "env-report/pkg/errors"
	"env-report/pkg/utils"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&config.LogConfig{Level: "error", Output: "stdout"})
	os.Exit(m.Run())
}

type mockReportService struct {
	lastQuery *dto.EnvironmentReportQuery
	resp      *dto.PagedResponse
	err       error
}

func (m *mockReportService) List(query *dto.EnvironmentReportQuery) (*dto.PagedResponse, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockReportService) Warm() error { return nil }

func setupReportRouter(svc *mockReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/EnvironmentReport", NewReportHandler(svc).List)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, url string) (*httptest.ResponseRecorder, *utils.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)

	var body utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, &body
}

func TestReportList_Success(t *testing.T) {
	svc := &mockReportService{
		resp: dto.NewPagedResponse([]*dto.EnvironmentReport{{EnvironmentName: "Prod"}}, 1, 1, 40),
	}
	r := setupReportRouter(svc)

	w, body := doRequest(t, r, "/api/EnvironmentReport?environmentName=prod&includeVariableGroups=true")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pkgErrors.CodeSuccess, body.Code)

	require.NotNil(t, svc.lastQuery)
	assert.Equal(t, "prod", svc.lastQuery.EnvironmentName)
	assert.True(t, svc.lastQuery.IncludeVariableGroups)
}

func TestReportList_InvalidSortByRejected(t *testing.T) {
	svc := &mockReportService{}
	r := setupReportRouter(svc)

	w, body := doRequest(t, r, "/api/EnvironmentReport?sortBy=banana")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, pkgErrors.CodeBadRequest, body.Code)
	assert.Nil(t, svc.lastQuery, "非法排序参数不应到达服务层")
}

func TestReportList_InvalidSortOrderRejected(t *testing.T) {
	r := setupReportRouter(&mockReportService{})

	w, _ := doRequest(t, r, "/api/EnvironmentReport?sortOrder=sideways")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportList_PageSizeOverLimitRejected(t *testing.T) {
	r := setupReportRouter(&mockReportService{})

	w, _ := doRequest(t, r, "/api/EnvironmentReport?pageSize=101")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportList_ExplicitZeroPagingRejected(t *testing.T) {
	svc := &mockReportService{}
	r := setupReportRouter(svc)

	// 显式传0与缺省不同: 缺省取默认值，显式0必须400
	for _, url := range []string{
		"/api/EnvironmentReport?pageNumber=0",
		"/api/EnvironmentReport?pageSize=0",
		"/api/EnvironmentReport?pageNumber=-1",
	} {
		w, body := doRequest(t, r, url)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
		assert.Equal(t, pkgErrors.CodeBadRequest, body.Code, url)
	}
	assert.Nil(t, svc.lastQuery, "非法分页参数不应到达服务层")
}

func TestReportList_OmittedPagingUsesDefaults(t *testing.T) {
	svc := &mockReportService{
		resp: dto.NewPagedResponse([]*dto.EnvironmentReport{}, 0, 1, 40),
	}
	r := setupReportRouter(svc)

	w, _ := doRequest(t, r, "/api/EnvironmentReport")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastQuery)
	assert.Equal(t, 1, svc.lastQuery.GetPageNumber())
	assert.Equal(t, 40, svc.lastQuery.GetPageSize())
}

func TestReportList_UpstreamErrorMapsToHTTPStatus(t *testing.T) {
	svc := &mockReportService{err: pkgErrors.ErrUpstreamError}
	r := setupReportRouter(svc)

	w, body := doRequest(t, r, "/api/EnvironmentReport")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, pkgErrors.CodeUpstreamError, body.Code)
}

func TestReportList_UnknownErrorHidesDetails(t *testing.T) {
	svc := &mockReportService{err: assert.AnError}
	r := setupReportRouter(svc)

	w, body := doRequest(t, r, "/api/EnvironmentReport")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, body.Message, assert.AnError.Error())
}
