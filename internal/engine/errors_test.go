package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExhaustedErrorFormatting(t *testing.T) {
	bare := &ExhaustedError{Reason: "nothing left", Emitted: 4}
	assert.Equal(t, "generation exhausted after 4 operations: nothing left", bare.Error())

	withMissing := &ExhaustedError{
		Reason:  "budget spent",
		Emitted: 9,
		Missing: map[string]int{"Warehouse": 1, "Person": 2},
	}
	// Missing types are listed in name order.
	assert.Equal(t,
		"generation exhausted after 9 operations: budget spent (missing: Person=2, Warehouse=1)",
		withMissing.Error())
}

func TestIsExhausted(t *testing.T) {
	err := &ExhaustedError{Reason: "x"}
	assert.True(t, IsExhausted(err))
	assert.True(t, IsExhausted(fmt.Errorf("run failed: %w", err)))
	assert.False(t, IsExhausted(errors.New("something else")))
	assert.False(t, IsExhausted(nil))
}
