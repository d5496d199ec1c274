package http_test

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/edgecloak/edgecloak/pkg/botdetect"
	"github.com/edgecloak/edgecloak/pkg/common"
	handlers "github.com/edgecloak/edgecloak/pkg/handlers/http"
	"github.com/edgecloak/edgecloak/pkg/infra/geoip"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unavailableResolver struct{}

func (unavailableResolver) Resolve(ctx context.Context, ip string) geoip.Result {
	return geoip.Result{Status: geoip.StatusUnavailable}
}

func newAssessApp() *fiber.App {
	logger := logrus.New()
	assessor := botdetect.NewAssessor(logger, unavailableResolver{})
	app := fiber.New()
	app.Get("/__/assess", handlers.NewAssessHandler(logger, assessor, nil).Handle)
	return app
}

func assessSignal(t *testing.T, assessment botdetect.Assessment, kind botdetect.Kind) botdetect.Signal {
	t.Helper()
	for _, sig := range assessment.Signals {
		if sig.Kind == kind {
			return sig
		}
	}
	t.Fatalf("no %s signal in assessment", kind)
	return botdetect.Signal{}
}

// The edge bot-score header arrives with whatever casing the transport
// normalized it to; the signal must still see it.
func TestAssessHandler_LowEdgeBotScoreSignalFires(t *testing.T) {
	app := newAssessApp()

	req := httptest.NewRequest(nethttp.MethodGet, "/__/assess", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set(common.BotScoreHeader, "10")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var assessment botdetect.Assessment
	require.NoError(t, json.Unmarshal(body, &assessment))

	headerSig := assessSignal(t, assessment, botdetect.KindHeaders)
	assert.Contains(t, headerSig.Reason, "edge_bot_score_low")
	assert.Equal(t, 50, headerSig.Score)
	assert.True(t, headerSig.Matched)
}

func TestAssessHandler_CompleteBrowserHeadersScoreZero(t *testing.T) {
	app := newAssessApp()

	req := httptest.NewRequest(nethttp.MethodGet, "/__/assess", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var assessment botdetect.Assessment
	require.NoError(t, json.Unmarshal(body, &assessment))

	headerSig := assessSignal(t, assessment, botdetect.KindHeaders)
	assert.Equal(t, 0, headerSig.Score)
	assert.False(t, headerSig.Matched)
}
