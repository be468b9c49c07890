package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/BerniceZTT/breezy_end/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HubSpotClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHubSpotClient("pat-test", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestListContactsUsesFixedProjection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, ContactsPath, r.URL.Path)
		assert.Equal(t, "Bearer pat-test", r.Header.Get("Authorization"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "firstname,lastname,email,phone,address,jobtitle,company", r.URL.Query().Get("properties"))
		w.Write([]byte(`{"results":[{"id":"1","properties":{"firstname":"Ada"}}]}`))
	})

	raw, err := client.ListContacts(context.Background())
	require.NoError(t, err)

	var page models.ContactPage
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Ada", page.Results[0].Properties.Get("firstname"))
}

func TestListDealsRequestsAssociations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DealsPath, r.URL.Path)
		assert.Equal(t, "contacts", r.URL.Query().Get("associations"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"results":[]}`))
	})

	raw, err := client.ListDeals(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[]}`, string(raw))
}

func TestCreateDealWithContactAttachesAssociation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"properties": {"dealname": "Breezy Premium - Monthly Subscription", "amount": "9.99"},
			"associations": [{"to": {"id": "42"}, "types": [{"associationCategory": "HUBSPOT_DEFINED", "associationTypeId": 3}]}]
		}`, string(body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"900","properties":{"dealname":"Breezy Premium - Monthly Subscription"}}`))
	})

	raw, err := client.CreateDeal(context.Background(), models.Properties{
		"dealname": "Breezy Premium - Monthly Subscription",
		"amount":   "9.99",
	}, "42")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"900"`)
}

func TestCreateDealWithoutContactSendsEmptyAssociations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"properties": {"dealname": "Solo"}, "associations": []}`, string(body))
		w.Write([]byte(`{"id":"901"}`))
	})

	_, err := client.CreateDeal(context.Background(), models.Properties{"dealname": "Solo"}, "")
	require.NoError(t, err)
}

func TestCreateDealUsesConfiguredAssociationType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"associationTypeId":279`)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewHubSpotClient("t", WithBaseURL(srv.URL), WithAssociationTypeID(279))
	_, err := client.CreateDeal(context.Background(), models.Properties{}, "1")
	require.NoError(t, err)
}

func TestListDealsForContactSkipsBatchReadWhenEmpty(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/crm/v3/objects/contacts/77/associations/deals", r.URL.Path)
		w.Write([]byte(`{"results":[]}`))
	})

	raw, err := client.ListDealsForContact(context.Background(), "77")
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[]}`, string(raw))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestListDealsForContactBatchReadsAssociatedDeals(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		switch r.URL.Path {
		case "/crm/v3/objects/contacts/77/associations/deals":
			w.Write([]byte(`{"results":[{"id":"5","type":"contact_to_deal"},{"id":"6","type":"contact_to_deal"}]}`))
		case DealsBatchReadPath:
			assert.Equal(t, http.MethodPost, r.Method)
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{
				"inputs": [{"id": "5"}, {"id": "6"}],
				"properties": ["dealname", "amount", "dealstage", "closedate", "pipeline", "createdate"]
			}`, string(body))
			w.Write([]byte(`{"status":"COMPLETE","results":[{"id":"5","properties":{"dealname":"A"}},{"id":"6","properties":{"dealname":"B"}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	raw, err := client.ListDealsForContact(context.Background(), "77")
	require.NoError(t, err)

	var page models.DealPage
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Len(t, page.Results, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestUpstreamErrorPreservesStatusAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"Property values were not valid","category":"VALIDATION_ERROR"}`))
	})

	_, err := client.CreateContact(context.Background(), models.Properties{"email": "nope"})
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	details, ok := upstream.Details().(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", details["category"])
}

func TestUpstreamErrorNonJSONBody(t *testing.T) {
	err := &UpstreamError{StatusCode: 502, Body: []byte("bad gateway")}
	assert.Equal(t, "bad gateway", err.Details())
	assert.Contains(t, err.Error(), "502")
}

func TestTransportErrorIsNotUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewHubSpotClient("t", WithBaseURL(url))
	_, err := client.ListContacts(context.Background())
	require.Error(t, err)

	var upstream *UpstreamError
	assert.False(t, errors.As(err, &upstream))
}
