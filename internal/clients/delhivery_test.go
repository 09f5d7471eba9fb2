package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *DelhiveryClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewDelhiveryClient(server.URL, "test-key", time.Second)
}

func TestCheckPincode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/c/api/pin-codes/json/", r.URL.Path)
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))
		if r.URL.Query().Get("filter_codes") == "110001" {
			w.Write([]byte(`{"delivery_codes":[{"postal_code":{"pin":110001,"district":"New Delhi","state_code":"DL","cod":"Y","pre_paid":"Y"}}]}`))
			return
		}
		w.Write([]byte(`{"delivery_codes":[]}`))
	})

	code, err := client.CheckPincode(context.Background(), "110001")
	require.NoError(t, err)
	assert.Equal(t, "110001", code.Pin.String())
	assert.Equal(t, "New Delhi", code.District)
	assert.Equal(t, "Y", code.COD)

	_, err = client.CheckPincode(context.Background(), "999999")
	assert.ErrorIs(t, err, ErrPincodeNotServiceable)
}

func TestZone(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "S", q.Get("md"))
		assert.Equal(t, "DTO", q.Get("ss"))
		assert.Equal(t, "500", q.Get("cgm"))
		switch q.Get("d_pin") {
		case "400001":
			w.Write([]byte(`[{"zone":" D2 "}]`))
		case "560001":
			w.Write([]byte(`[{"zone":"Z"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	})

	zone, err := client.Zone(context.Background(), "110001", "400001")
	require.NoError(t, err)
	assert.Equal(t, "D", zone)

	zone, err = client.Zone(context.Background(), "110001", "560001")
	require.NoError(t, err)
	assert.Equal(t, DefaultZone, zone)

	zone, err = client.Zone(context.Background(), "110001", "700001")
	require.NoError(t, err)
	assert.Equal(t, DefaultZone, zone)
}

func TestWaybills(t *testing.T) {
	body := `"1234567890, 1234567891,1234567892"`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		w.Write([]byte(body))
	})

	waybills, err := client.Waybills(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890", "1234567891", "1234567892"}, waybills)

	body = `[1234567890, "1234567891"]`
	waybills, err = client.Waybills(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890", "1234567891"}, waybills)
}

func TestUpstreamFailures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := client.Waybills(context.Background(), 1)
	assert.Error(t, err)

	unconfigured := NewDelhiveryClient("http://127.0.0.1:1", "", 0)
	_, err = unconfigured.CheckPincode(context.Background(), "110001")
	assert.ErrorIs(t, err, ErrShippingNotConfigured)
}

func TestEstimatedDays(t *testing.T) {
	assert.Equal(t, 5, EstimatedDays("A"))
	assert.Equal(t, 7, EstimatedDays("B"))
	assert.Equal(t, 9, EstimatedDays("C"))
	assert.Equal(t, 9, EstimatedDays("F"))
}
