package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
)

func TestNodesCmd_JSON(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newNodesCmd())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"nodes", "--json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("nodes failed: %v", err)
	}

	var result struct {
		Nodes []struct {
			Name         string  `json:"name"`
			Dimension    string  `json:"dimension"`
			BasePriority float64 `json:"base_priority"`
		} `json:"nodes"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.Count != len(activation.Nodes) {
		t.Fatalf("count = %d, want %d", result.Count, len(activation.Nodes))
	}
	if result.Nodes[0].Name != "appearance_density" {
		t.Errorf("first node = %s, want appearance_density", result.Nodes[0].Name)
	}
	if result.Nodes[0].BasePriority != 9 {
		t.Errorf("appearance priority = %v, want 9", result.Nodes[0].BasePriority)
	}
}

func TestNodesCmd_DimensionFilter(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newNodesCmd())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"nodes", "--dimension", "certainty", "--json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("nodes failed: %v", err)
	}

	var result struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.Count != 3 {
		t.Errorf("count = %d, want 3", result.Count)
	}
}

func TestNodesCmd_UnknownDimension(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newNodesCmd())
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"nodes", "--dimension", "spectral"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("nodes accepted unknown dimension, want error")
	}
}
