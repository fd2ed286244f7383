package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := New()

	c.Intent("employee", "list_own")
	c.Intent("employee", "list_own")
	c.TaskMutation("task.create", "created")
	c.Request("/tasks", "200")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.intents.WithLabelValues("employee", "list_own")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.mutations.WithLabelValues("task.create", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("/tasks", "200")))
}

func TestCollector_Nil(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Intent("manager", "help")
		c.TaskMutation("task.update", "updated")
		c.Request("/health", "200")
	})
}

func TestHandler(t *testing.T) {
	c := New()
	c.TaskMutation("task.update_status", "not_found")

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `elhem_task_mutations_total{action="task.update_status",outcome="not_found"} 1`)
}
