// Package handlertest holds fixtures shared by the handler tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"coown-backend/internal/application/demand"
	"coown-backend/internal/application/eventlog"
	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/ids"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

var Now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// Snapshot is a small consistent state: one property per stage that matters
// to the handlers, with reserved amounts backed by reservations.
func Snapshot() domain.Snapshot {
	lat, lng := 37.5, 127.0
	return domain.Snapshot{
		User: domain.User{ID: "u1", Name: "홍길동", Balance: 5000000, ReservationLimit: 1000000, TrustScore: 62},
		Properties: []domain.Property{
			{ID: "p-open", Name: "Open", Address: "서울 강남구 1", TargetPrice: 1000000, ReservedAmount: 400000, Status: domain.StatusVotingOpen, VoterCount: 1, Lat: &lat, Lng: &lng},
			{ID: "p-met", Name: "Met", Address: "부산 해운대구 1", TargetPrice: 500000, ReservedAmount: 500000, Status: domain.StatusVotingMet, VoterCount: 1},
			{ID: "p-offer", Name: "Offer", Address: "서울 마포구 1", TargetPrice: 2000000, ReservedAmount: 2000000, Status: domain.StatusPublicOffer, VoterCount: 1},
		},
		Reservations: []domain.Reservation{
			{ID: "r-base", UserID: "u-cohort", PropertyID: "p-open", Amount: 400000, Status: domain.ReservationActive, CreatedAt: Now.Add(-time.Hour)},
			{ID: "r-met", UserID: "u-cohort", PropertyID: "p-met", Amount: 500000, Status: domain.ReservationActive, CreatedAt: Now.Add(-time.Hour)},
			{ID: "r-mine", UserID: "u1", PropertyID: "p-offer", Amount: 2000000, Status: domain.ReservationActive, CreatedAt: Now.Add(-time.Hour)},
		},
	}
}

// NewStore returns a store over Snapshot with deterministic ids and clock.
func NewStore() *demand.Service {
	return demand.New(Snapshot(), demand.Options{
		IDs:     ids.NewSequence(),
		Clock:   func() time.Time { return Now },
		Session: eventlog.Session{ID: "s-test", Channel: domain.ChannelWeb},
	})
}

// Do sends a request with an optional JSON body and decodes the JSON reply.
func Do(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// ErrorMessage digs error.message out of an error envelope.
func ErrorMessage(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	msg, _ := e["message"].(string)
	return msg
}
