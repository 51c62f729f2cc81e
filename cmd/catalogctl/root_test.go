package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	t.Setenv("RECORDSTORE_API_KEY", "key")
	t.Setenv("RECORDSTORE_BASE_ID", "appCLI")
	t.Setenv("RECORDSTORE_BASE_URL", upstream.URL)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const brandsBody = `{"records":[{"id":"rec1","createdTime":"2024-05-01T10:00:00.000Z","fields":{"Name":"Casa Verde"}}]}`

func TestBrands_Normalized(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/appCLI/Brands", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("maxRecords"))
		w.Write([]byte(brandsBody))
	}, "brands", "--max", "5")

	require.NoError(t, err)
	assert.Contains(t, out, "casa-verde")
	assert.Contains(t, out, "1 brands")
}

func TestBrands_Raw(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "{Name} = \"x\"", r.URL.Query().Get("filterByFormula"))
		w.Write([]byte(brandsBody))
	}, "brands", "--raw", "--filter", `{Name} = "x"`)

	require.NoError(t, err)
	assert.Contains(t, out, `"Name": "Casa Verde"`)
}

func TestProducts_SKUFilter(t *testing.T) {
	var formulas []string
	handler := func(w http.ResponseWriter, r *http.Request) {
		formulas = append(formulas, r.URL.Query().Get("filterByFormula"))
		w.Write([]byte(`{"records":[{"id":"recP","createdTime":"2024-05-01T10:00:00.000Z","fields":{"Name":"Champú Suave","SKU":"CH-001","Active":true}}]}`))
	}

	out, err := runCLI(t, handler, "products", "--sku", "CH-001")
	require.NoError(t, err)
	assert.Contains(t, out, "CH-001")

	_, err = runCLI(t, handler, "products", "--raw", "--sku", `A"1`, "--filter", "{Active}")
	require.NoError(t, err)

	assert.Equal(t, []string{
		`{SKU} = "CH-001"`,
		`AND({Active}, {SKU} = "A\"1")`,
	}, formulas)
}

func TestRecord_UpstreamError(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"NOT_FOUND"}`))
	}, "record", "Products", "recMissing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_FOUND")
}

func TestMissingCredentials(t *testing.T) {
	t.Setenv("RECORDSTORE_API_KEY", "")
	t.Setenv("RECORDSTORE_BASE_ID", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"categories"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
