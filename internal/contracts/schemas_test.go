package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFromPath(t *testing.T) {
	assert.Equal(t, "ApplicationCreateEvent/1.0.0", KeyFromPath("events/application-create/v1.json"))
	assert.Equal(t, "", KeyFromPath("events/broken.json"))
}

func TestValidateEvent_AcceptsApplicationCreate(t *testing.T) {
	body := []byte(`{"counterpartyId": 1, "propertyId": 2, "type": "Sale", "totalCost": 150000}`)
	require.NoError(t, ValidateEvent("ApplicationCreateEvent", "1.0.0", body))

	maxCost := []byte(`{"counterpartyId": 1, "propertyId": 2, "type": "Sale", "totalCost": 2147483647}`)
	require.NoError(t, ValidateEvent("ApplicationCreateEvent", "1.0.0", maxCost))
}

func TestValidateEvent_Rejects(t *testing.T) {
	cases := map[string][]byte{
		"missing field":   []byte(`{"counterpartyId": 1, "propertyId": 2, "type": "Sale"}`),
		"wrong type":      []byte(`{"counterpartyId": "one", "propertyId": 2, "type": "Sale", "totalCost": 1}`),
		"not json":        []byte(`{"counterpartyId": 1,`),
		"extra field":     []byte(`{"counterpartyId": 1, "propertyId": 2, "type": "Sale", "totalCost": 1, "x": 1}`),
		"fractional cost": []byte(`{"counterpartyId": 1, "propertyId": 2, "type": "Sale", "totalCost": 1.5}`),
		"cost overflow":   []byte(`{"counterpartyId": 1, "propertyId": 2, "type": "Sale", "totalCost": 2147483648}`),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateEvent("ApplicationCreateEvent", "1.0.0", body))
		})
	}
}

func TestValidateEvent_UnknownSchema(t *testing.T) {
	err := ValidateEvent("PropertyCreateEvent", "1.0.0", []byte(`{}`))
	assert.ErrorContains(t, err, "not found")
}
