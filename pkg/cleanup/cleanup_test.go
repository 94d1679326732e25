package cleanup_test

import (
	"errors"
	"testing"

	"github.com/limbo/hydrobuddy/pkg/cleanup"
	"github.com/stretchr/testify/assert"
)

func TestCleanUpRunsInReverseOrder(t *testing.T) {
	var order []string
	cleanup.Register(&cleanup.Job{Name: "store", F: func() error {
		order = append(order, "store")
		return nil
	}})
	cleanup.Register(&cleanup.Job{Name: "timer", F: func() error {
		order = append(order, "timer")
		return errors.New("already stopped")
	}})
	cleanup.CleanUp()
	assert.Equal(t, []string{"timer", "store"}, order)

	// Jobs are forgotten after running
	cleanup.CleanUp()
	assert.Equal(t, []string{"timer", "store"}, order)
}
