package company

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/api/apitest"
	"github.com/finchtui/finch/internal/logging"
)

type testServer struct {
	server *apitest.Server
	client *api.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	server := apitest.NewServer(t)
	client, err := api.NewClient(server.URL, logging.Discard())
	require.NoError(t, err)
	_, err = client.Login(context.Background(), "bob@example.com", "hunter2")
	require.NoError(t, err)

	return &testServer{server: server, client: client}
}
