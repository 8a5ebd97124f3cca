package tallyhttp_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tally "github.com/tallylabs/tally"
	"github.com/tallylabs/tally/connectors/tallyhttp"
	"github.com/tallylabs/tally/counter"
	"github.com/tallylabs/tally/stores/memory"
)

func identity(fill byte) tally.Identity {
	var id tally.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

var (
	alice = identity(0xa1)
	bob   = identity(0xb2)
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	service := counter.CreateCounterService(memory.NewEventStore())
	handler := tallyhttp.NewHandler(
		service,
		tallyhttp.StatusMapper[counter.Counter](counter.ErrorStatus),
	)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func commandBody(t *testing.T, name string, payload any) *bytes.Buffer {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	body, err := json.Marshal(tally.RemoteCommand{
		CommandName: tally.CommandName(name),
		Payload:     tally.Data{Encoding: "application/json", Data: data},
	})
	require.NoError(t, err)

	return bytes.NewBuffer(body)
}

func execute(t *testing.T, server *httptest.Server, caller string, name string, payload any) *http.Response {
	t.Helper()

	request, err := http.NewRequest("POST", server.URL+"/counter/test-counter", commandBody(t, name, payload))
	require.NoError(t, err)

	request.Header.Set("Content-Type", "application/json")
	if caller != "" {
		request.Header.Set(tallyhttp.CallerHeader, caller)
	}

	response, err := server.Client().Do(request)
	require.NoError(t, err)

	return response
}

func decode(t *testing.T, response *http.Response) map[string]any {
	t.Helper()

	defer response.Body.Close()

	var resource map[string]any
	require.NoError(t, json.NewDecoder(response.Body).Decode(&resource))

	return resource
}

func TestGetUnknownCounter(t *testing.T) {
	server := newServer(t)

	response, err := server.Client().Get(server.URL + "/counter/missing")
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestInitializeCounter(t *testing.T) {
	server := newServer(t)

	response := execute(t, server, alice.String(), counter.InitializeCommand, struct{}{})
	assert.Equal(t, http.StatusOK, response.StatusCode)

	resource := decode(t, response)
	assert.Equal(t, float64(0), resource["count"])
	assert.Equal(t, alice.String(), resource["authority"])
	assert.Equal(t, "counter", resource["$type"])
	assert.NotEmpty(t, resource["$revision"])
}

func TestIncrementCounter(t *testing.T) {
	server := newServer(t)

	response := execute(t, server, alice.String(), counter.InitializeCommand, struct{}{})
	require.Equal(t, http.StatusOK, response.StatusCode)
	response.Body.Close()

	response = execute(t, server, alice.String(), counter.IncrementCommand, struct{}{})
	assert.Equal(t, http.StatusOK, response.StatusCode)

	resource := decode(t, response)
	assert.Equal(t, float64(1), resource["count"])
}

func TestRejectsNonAuthority(t *testing.T) {
	server := newServer(t)

	response := execute(t, server, alice.String(), counter.InitializeCommand, struct{}{})
	require.Equal(t, http.StatusOK, response.StatusCode)
	response.Body.Close()

	response = execute(t, server, bob.String(), counter.IncrementCommand, struct{}{})
	defer response.Body.Close()
	assert.Equal(t, http.StatusForbidden, response.StatusCode)

	get, err := server.Client().Get(server.URL + "/counter/test-counter")
	require.NoError(t, err)

	resource := decode(t, get)
	assert.Equal(t, float64(0), resource["count"])
	assert.Equal(t, alice.String(), resource["authority"])
}

func TestRejectsMissingCaller(t *testing.T) {
	server := newServer(t)

	response := execute(t, server, "", counter.InitializeCommand, struct{}{})
	defer response.Body.Close()

	assert.Equal(t, http.StatusForbidden, response.StatusCode)
}

func TestRejectsMalformedCaller(t *testing.T) {
	server := newServer(t)

	response := execute(t, server, "not-a-hex-identity", counter.InitializeCommand, struct{}{})
	defer response.Body.Close()

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestRejectsUnknownCommand(t *testing.T) {
	server := newServer(t)

	response := execute(t, server, alice.String(), "counter:destroy", struct{}{})
	defer response.Body.Close()

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestRejectsUnsupportedContentType(t *testing.T) {
	server := newServer(t)

	request, err := http.NewRequest(
		"POST",
		server.URL+"/counter/test-counter",
		commandBody(t, counter.InitializeCommand, struct{}{}),
	)
	require.NoError(t, err)
	request.Header.Set("Content-Type", "text/plain")

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusUnsupportedMediaType, response.StatusCode)
}

func TestUnderflowReportsUnprocessable(t *testing.T) {
	server := newServer(t)

	response := execute(t, server, alice.String(), counter.InitializeCommand, struct{}{})
	require.Equal(t, http.StatusOK, response.StatusCode)
	response.Body.Close()

	response = execute(t, server, alice.String(), counter.DecrementCommand, struct{}{})
	defer response.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, response.StatusCode)
}

func TestSetValue(t *testing.T) {
	server := newServer(t)

	response := execute(t, server, alice.String(), counter.InitializeCommand, struct{}{})
	require.Equal(t, http.StatusOK, response.StatusCode)
	response.Body.Close()

	response = execute(t, server, alice.String(), counter.SetCommand, counter.Set{Value: 42})
	assert.Equal(t, http.StatusOK, response.StatusCode)

	resource := decode(t, response)
	assert.Equal(t, float64(42), resource["count"])
}

func TestTransferAuthority(t *testing.T) {
	server := newServer(t)

	response := execute(t, server, alice.String(), counter.InitializeCommand, struct{}{})
	require.Equal(t, http.StatusOK, response.StatusCode)
	response.Body.Close()

	response = execute(t, server, alice.String(), counter.TransferAuthorityCommand, counter.TransferAuthority{Authority: bob})
	assert.Equal(t, http.StatusOK, response.StatusCode)

	resource := decode(t, response)
	assert.Equal(t, bob.String(), resource["authority"])

	response = execute(t, server, alice.String(), counter.IncrementCommand, struct{}{})
	defer response.Body.Close()
	assert.Equal(t, http.StatusForbidden, response.StatusCode)
}
