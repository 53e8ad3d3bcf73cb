package main

import (
	"context"
	"testing"

	"github.com/jonathan/person-researcher/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDatabase_RequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RESEARCHER_DATABASE__URL", "")

	called := false
	err := withDatabase(context.Background(), func(*db.DB) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is required")
	assert.False(t, called)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"serve", "search", "research", "history", "migrate", "validate"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	sub := map[string]bool{}
	for _, cmd := range historyCmd.Commands() {
		sub[cmd.Name()] = true
	}
	assert.Equal(t, map[string]bool{"list": true, "show": true, "delete": true, "prune-pages": true}, sub)
}
