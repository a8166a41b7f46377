package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPayloadMarshalling(t *testing.T) {
	payload := ProgressPayload{
		SessionID: "sess-1",
		Index:     3,
		Size:      25,
	}

	body, err := json.Marshal(payload)
	assert.Nil(t, err)

	var decoded map[string]interface{}
	json.Unmarshal(body, &decoded)

	assert.Equal(t, "sess-1", decoded["session_id"])
	assert.Equal(t, float64(3), decoded["index"])
	assert.Equal(t, float64(25), decoded["size"])
}

func TestResultPayloadMarshalling(t *testing.T) {
	payload := ResultPayload{
		SessionID:    "sess-1",
		TotalSuccess: 1,
		TotalError:   1,
		ElementSuccess: []ResultSuccess{
			{LeadID: "lead-1", CadenceID: "cad-1", ExternalID: "sf-1"},
		},
		ElementError: []ResultError{
			{ExternalID: "sf-2", CadenceID: "cad-1", Message: "lead already present", ErrorKind: "ALREADY_PRESENT"},
		},
	}

	body, err := json.Marshal(payload)
	assert.Nil(t, err)

	var decoded map[string]interface{}
	json.Unmarshal(body, &decoded)

	// O front consome exatamente estas chaves
	assert.Contains(t, decoded, "element_success")
	assert.Contains(t, decoded, "element_error")
	assert.Equal(t, float64(1), decoded["total_success"])
	assert.Equal(t, float64(1), decoded["total_error"])

	errs := decoded["element_error"].([]interface{})
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "ALREADY_PRESENT", first["error_kind"])
}

func TestRecomputePayloadMarshalling(t *testing.T) {
	payload := RecomputePayload{
		CadenceID: "cad-1",
		CompanyID: "comp-1",
		Reason:    "leads_linked",
	}

	body, err := json.Marshal(payload)
	assert.Nil(t, err)

	var decoded RecomputePayload
	json.Unmarshal(body, &decoded)
	assert.Equal(t, payload, decoded)
}

func TestSessionRoutingKey(t *testing.T) {
	// A routing key do canal out-of-band é derivada só do session_id
	assert.Equal(t, "import.session.sess-1", SessionKeyPrefix+"sess-1")
}
