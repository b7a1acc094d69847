package rpc

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/blackelite/vestd/crypto"
	"github.com/blackelite/vestd/internal/access"
	"github.com/blackelite/vestd/internal/events"
	"github.com/blackelite/vestd/internal/storage"
	"github.com/blackelite/vestd/internal/token"
	"github.com/blackelite/vestd/internal/vesting"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestServer(t *testing.T) (*httptest.Server, crypto.Address) {
	t.Helper()
	var adminArr [20]byte
	adminArr[19] = 0x01
	admin := crypto.FromArray(crypto.VestPrefix, adminArr)

	store := access.NewMemRoleStore(admin.Array())
	ctrl := access.NewControl(store)

	var engineAddr [20]byte
	engineAddr[19] = 0xEE
	tok := token.NewMock(18, engineAddr, map[[20]byte]*big.Int{
		engineAddr: new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1_000_000_000_000_000_000)),
	})

	now := int64(1_700_000_000)
	clock := func() int64 { return now }

	db, err := storage.Open(filepath.Join(t.TempDir(), "vestd.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	engine := vesting.NewEngine(db, ctrl, tok, events.NoopEmitter{}, clock, engineAddr)

	auth := NewAuthenticator(AuthConfig{Enabled: true, HMACSecret: testSecret})
	limiter := NewRateLimiter(RateLimit{RatePerSecond: 100, Burst: 100})
	srv := New(engine, ctrl, auth, limiter)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, admin
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, bearer string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(struct {
		Params interface{} `json:"params"`
	}{Params: body}))
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealthzIsUnauthenticated(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateRequiresBearerToken(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, _ := doJSON(t, ts, http.MethodPost, "/v1/schedules", "", createParams{})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAndQuerySchedule(t *testing.T) {
	ts, admin := newTestServer(t)
	token := signToken(t, admin.String())

	var beneficiaryArr [20]byte
	beneficiaryArr[19] = 0x02
	beneficiary := crypto.FromArray(crypto.VestPrefix, beneficiaryArr)

	resp, decoded := doJSON(t, ts, http.MethodPost, "/v1/schedules", token, createParams{
		Beneficiary:  beneficiary.String(),
		Start:        1_700_000_000,
		Duration:     604800,
		SliceSeconds: 1,
		Amount:       "1000000000000000000000",
		Revokable:    true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decoded["result"].(map[string]interface{})
	scheduleID, ok := result["scheduleId"].(string)
	require.True(t, ok)
	require.NotEmpty(t, scheduleID)

	queryResp, err := http.Get(ts.URL + "/v1/query/schedules/" + scheduleID)
	require.NoError(t, err)
	defer queryResp.Body.Close()
	require.Equal(t, http.StatusOK, queryResp.StatusCode)
}

func TestCreateRejectsInvalidAmount(t *testing.T) {
	ts, admin := newTestServer(t)
	token := signToken(t, admin.String())
	resp, decoded := doJSON(t, ts, http.MethodPost, "/v1/schedules", token, createParams{
		Beneficiary: admin.String(),
		Duration:    1000,
		Amount:      "not-a-number",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, decoded["error"])
}
