package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericIDsDecodeAsStrings(t *testing.T) {
	var c Contact
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "properties": {"firstname": "Ada"}, "archived": true}`), &c))
	assert.Equal(t, "42", c.ID)
	assert.Equal(t, "Ada", c.FullName())
	assert.True(t, c.Archived)

	var d Deal
	require.NoError(t, json.Unmarshal([]byte(`{"id": 9007199254740993, "properties": {"dealname": "x"}}`), &d))
	assert.Equal(t, "9007199254740993", d.ID)
	assert.Equal(t, "x", d.Name())

	require.NoError(t, json.Unmarshal([]byte(`{"id": null, "properties": {}}`), &c))
	assert.Empty(t, c.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id": {"nested": 1}}`), &c))
}

func TestCreateDealRequestAcceptsNumericContactID(t *testing.T) {
	var req CreateDealRequest
	require.NoError(t, json.Unmarshal([]byte(`{"dealProperties": {"dealname": "x"}, "contactId": 42}`), &req))
	assert.Equal(t, "42", req.ContactID)
	assert.Equal(t, "x", req.DealProperties.Get("dealname"))

	req = CreateDealRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"dealProperties": {}}`), &req))
	assert.Empty(t, req.ContactID)

	out, err := json.Marshal(CreateDealRequest{DealProperties: Properties{}, ContactID: "7"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dealProperties": {}, "contactId": "7"}`, string(out))
}

func TestAnalyseCustomerRequestEcho(t *testing.T) {
	body := `{"contact": {"id": 1, "properties": {}, "associations": {"deals": {"results": []}}}, "deals": [{"id": "10", "properties": {}, "custom": "kept"}]}`
	var req AnalyseCustomerRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	require.NotNil(t, req.Contact)
	assert.Equal(t, "1", req.Contact.ID)
	require.Len(t, req.Deals, 1)

	contact, deals := req.Echo()
	assert.JSONEq(t, `{"id": 1, "properties": {}, "associations": {"deals": {"results": []}}}`, string(contact))
	assert.JSONEq(t, `[{"id": "10", "properties": {}, "custom": "kept"}]`, string(deals))

	built := AnalyseCustomerRequest{Contact: &Contact{ID: "2", Properties: Properties{}}}
	contact, deals = built.Echo()
	assert.JSONEq(t, `{"id": "2", "properties": {}}`, string(contact))
	assert.Equal(t, "null", string(deals))
}

func TestAnalyseCustomerRequestMissingFields(t *testing.T) {
	var req AnalyseCustomerRequest
	require.NoError(t, json.Unmarshal([]byte(`{"contact": null}`), &req))
	assert.Nil(t, req.Contact)
	assert.Nil(t, req.Deals)
}
