// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx, "query:a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "query:a", "answer", time.Minute))
	got, ok, err := c.Get(ctx, "query:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "answer", got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.SetClock(func() time.Time { return now })

	require.NoError(t, c.Set(ctx, "k", "v", time.Hour))
	n, _ := c.Len(ctx)
	assert.Equal(t, 1, n)

	now = now.Add(time.Hour)
	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok)
	n, _ = c.Len(ctx)
	assert.Equal(t, 0, n)
}

func TestNewRedisCache_Errors(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "", 0)
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = NewRedisCache(ctx, "127.0.0.1:1", 0)
	assert.Error(t, err)
}
