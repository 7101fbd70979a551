package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestComputeAttributionDocumentedScenario - caminho [email, whatsapp, email]
func TestComputeAttributionDocumentedScenario(t *testing.T) {
	attr := ComputeAttribution([]string{"email", "whatsapp", "email"})

	assert.Equal(t, 3, attr.TouchpointsCount)
	assert.Equal(t, "email", *attr.FirstTouch)
	assert.Equal(t, "email", *attr.LastTouch)

	assert.Equal(t, map[string]float64{"email": 100}, attr.LastClick)
	assert.Equal(t, map[string]float64{"email": 100}, attr.FirstClick)

	// Linear: cada posição vale 100/3; email aparece duas vezes.
	assert.InDelta(t, 66.67, attr.Linear["email"], 0.01)
	assert.InDelta(t, 33.33, attr.Linear["whatsapp"], 0.01)

	// Time decay: pesos 1/3, 2/3, 1; S=2; créditos 16.67, 33.33, 50.
	assert.InDelta(t, 66.67, attr.TimeDecay["email"], 0.01)
	assert.InDelta(t, 33.33, attr.TimeDecay["whatsapp"], 0.01)
}

func TestComputeAttributionSingleTouch(t *testing.T) {
	attr := ComputeAttribution([]string{"instagram"})

	assert.Equal(t, 1, attr.TouchpointsCount)
	assert.Equal(t, "instagram", *attr.FirstTouch)
	assert.Equal(t, "instagram", *attr.LastTouch)
	assert.Equal(t, map[string]float64{"instagram": 100}, attr.LastClick)
	assert.Equal(t, map[string]float64{"instagram": 100}, attr.FirstClick)
	assert.InDelta(t, 100, attr.Linear["instagram"], 1e-9)
	assert.InDelta(t, 100, attr.TimeDecay["instagram"], 1e-9)
}

func TestComputeAttributionEmptyPath(t *testing.T) {
	attr := ComputeAttribution(nil)

	assert.Equal(t, 0, attr.TouchpointsCount)
	assert.Nil(t, attr.FirstTouch)
	assert.Nil(t, attr.LastTouch)
	assert.Nil(t, attr.LastClick)
	assert.Nil(t, attr.FirstClick)
	assert.Nil(t, attr.Linear)
	assert.Nil(t, attr.TimeDecay)
}

// TestComputeAttributionCreditsSumTo100 - propriedade: todo caminho não
// vazio distribui exatamente 100% em cada modelo.
func TestComputeAttributionCreditsSumTo100(t *testing.T) {
	paths := [][]string{
		{"email"},
		{"email", "whatsapp"},
		{"email", "whatsapp", "email"},
		{"ads", "ads", "ads", "ads"},
		{"organic", "email", "sms", "whatsapp", "email", "ads", "organic"},
		{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"},
	}

	sum := func(credits map[string]float64) float64 {
		var total float64
		for _, v := range credits {
			total += v
		}
		return total
	}

	for _, path := range paths {
		attr := ComputeAttribution(path)
		assert.InDelta(t, 100, sum(attr.LastClick), 1e-9)
		assert.InDelta(t, 100, sum(attr.FirstClick), 1e-9)
		assert.InDelta(t, 100, sum(attr.Linear), 1e-9, "linear, path %v", path)
		assert.InDelta(t, 100, sum(attr.TimeDecay), 1e-9, "time decay, path %v", path)
	}
}

func TestComputeAttributionLastPositionWeighsMost(t *testing.T) {
	attr := ComputeAttribution([]string{"first", "middle", "last"})

	assert.Greater(t, attr.TimeDecay["last"], attr.TimeDecay["middle"])
	assert.Greater(t, attr.TimeDecay["middle"], attr.TimeDecay["first"])
}
