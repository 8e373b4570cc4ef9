package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildAllowedOriginsDefaultsOnly(t *testing.T) {
	origins := buildAllowedOrigins("", "")
	require.Equal(t, devOrigins, origins)
}

func TestBuildAllowedOriginsClientURL(t *testing.T) {
	origins := buildAllowedOrigins("https://records.example.com", "")
	require.Contains(t, origins, "https://records.example.com")
}

func TestBuildAllowedOriginsExtraList(t *testing.T) {
	origins := buildAllowedOrigins("", " https://a.example.com , https://b.example.com ,, ")
	require.Contains(t, origins, "https://a.example.com")
	require.Contains(t, origins, "https://b.example.com")
	require.Len(t, origins, len(devOrigins)+2)
}
