package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/iksnae/cursor-workspace/internal"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "nonexistent command",
			args:    []string{"no-such-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			var stdout, stderr bytes.Buffer
			rootCmd.SetOut(&stdout)
			rootCmd.SetErr(&stderr)

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "validation error",
			err:  &internal.ValidationError{Op: "rename", Reason: "refused"},
			want: 2,
		},
		{
			name: "wrapped validation error",
			err:  fmt.Errorf("outer: %w", &internal.ValidationError{Op: "clean", Reason: "refused"}),
			want: 2,
		},
		{
			name: "ambiguous target",
			err:  &internal.AmbiguousTargetError{Path: "/p", Matches: []string{"a", "b"}},
			want: 2,
		},
		{
			name: "storage error",
			err:  &internal.StorageError{Path: "/p", Op: "read", Err: errors.New("boom")},
			want: 1,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
