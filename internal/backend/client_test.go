package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderdesk/tenderdesk/internal/backend"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, time.Second)

	_, err := c.Roles(context.Background(), "token-123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestClientSurfacesAPIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"ROLE_IN_USE","message":"Role is assigned to 3 users"}}`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, time.Second)

	err := c.DeleteRole(context.Background(), "t", 7)
	require.Error(t, err)

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "ROLE_IN_USE", apiErr.Code)
	assert.Equal(t, "Role is assigned to 3 users", apiErr.Error())
}

func TestClientUndecodableErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream says no`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, time.Second)

	_, err := c.Tenders(context.Background(), "t", "")
	require.Error(t, err)

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "request failed with status 502", apiErr.Error())
}

func TestSetRequisitionOfficersIsFullReplace(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotBody   []byte
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := backend.New(srv.URL, time.Second)

	// prior assignment was officers 1 and 2; the new selection is 3 and 4
	in := backend.OfficerAssignmentUpdate{
		Officers: []backend.OfficerAssignment{
			{UserID: 3, IsLead: true},
			{UserID: 4},
		},
		ManagerID: nil,
	}

	require.NoError(t, c.SetRequisitionOfficers(context.Background(), "t", 12, in))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/requisitions/12/officers", gotPath)

	var sent backend.OfficerAssignmentUpdate
	require.NoError(t, json.Unmarshal(gotBody, &sent))

	// the payload carries exactly the new desired state, no trace of the
	// old officers
	require.Len(t, sent.Officers, 2)
	assert.Equal(t, int64(3), sent.Officers[0].UserID)
	assert.True(t, sent.Officers[0].IsLead)
	assert.Equal(t, int64(4), sent.Officers[1].UserID)
	assert.False(t, sent.Officers[1].IsLead)
	assert.Nil(t, sent.ManagerID)

	// the explicit unassign is on the wire, not omitted
	assert.Contains(t, string(gotBody), `"managerId":null`)
}

func TestSetOpeningCommitteePayload(t *testing.T) {
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := backend.New(srv.URL, time.Second)

	in := backend.CommitteeUpdate{MemberIDs: []int64{5, 6, 7}, HeadID: 6}
	require.NoError(t, c.SetOpeningCommittee(context.Background(), "t", 3, in))

	var sent backend.CommitteeUpdate
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	assert.Equal(t, in, sent)
}

func TestLookupUsersByRoleEscapesQuery(t *testing.T) {
	var gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id":1,"fullName":"Dana Osei"}]`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, time.Second)

	users, err := c.LookupUsersByRole(context.Background(), "t", "TENDER_OFFICER")
	require.NoError(t, err)

	require.Len(t, users, 1)
	assert.Equal(t, "Dana Osei", users[0].FullName)
	assert.Equal(t, "role=TENDER_OFFICER", gotQuery)
}

func TestLoginCarriesNoToken(t *testing.T) {
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"accessToken":"abc"}`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, time.Second)

	res, err := c.Login(context.Background(), "dana@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "abc", res.AccessToken)
	assert.Empty(t, gotAuth)
}

func TestClientContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := backend.New(srv.URL, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Roles(ctx, "t")
	require.Error(t, err)
}

func TestIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"no such tender"}}`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, time.Second)

	_, err := c.TenderOfficers(context.Background(), "t", 99)
	require.Error(t, err)
	assert.True(t, backend.IsNotFound(err))
}
