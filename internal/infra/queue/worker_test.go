package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func journeysCompletedTotal(t *testing.T) float64 {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "journeys_completed_total" {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

// MockJourneyCompleter
type MockJourneyCompleter struct {
	mock.Mock
}

func (m *MockJourneyCompleter) CompleteActiveByCustomer(ctx context.Context, customerID string) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func TestConversionPayloadRoundTrip(t *testing.T) {
	orderID := "order-7"
	payload := ConversionPayload{
		CustomerID:     "cust-1",
		TenantID:       1,
		ConversionType: "purchase",
		Value:          300,
		OrderID:        &orderID,
		OccurredAt:     time.Now().Truncate(time.Second),
	}

	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	var decoded ConversionPayload
	assert.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, payload.CustomerID, decoded.CustomerID)
	assert.Equal(t, payload.ConversionType, decoded.ConversionType)
	assert.Equal(t, payload.Value, decoded.Value)
	assert.Equal(t, "order-7", *decoded.OrderID)
}

func TestWorkerCompletesJourneysOnConversion(t *testing.T) {
	mockCompleter := new(MockJourneyCompleter)
	mockCompleter.On("CompleteActiveByCustomer", mock.Anything, "cust-1").Return(int64(2), nil)

	before := journeysCompletedTotal(t)

	w := NewWorker(nil, mockCompleter, zap.NewNop())
	err := w.processMessage(context.Background(), ConversionPayload{
		CustomerID:     "cust-1",
		ConversionType: "purchase",
	})

	assert.NoError(t, err)
	assert.Equal(t, before+2, journeysCompletedTotal(t))
	mockCompleter.AssertExpectations(t)
}
