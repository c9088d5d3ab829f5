package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func complete(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{cobra.ShellCompRequestCmd}, args...))
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

func TestRenderFlagCompletions(t *testing.T) {
	tests := []struct {
		flag string
		want []string
	}{
		{"--font", []string{"helvetica", "go"}},
		{"--view", []string{"wave", "nodelink"}},
		{"--format", []string{"svg", "png", "pdf", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got := complete(t, "render", tt.flag, "")
			for _, w := range tt.want {
				if !strings.Contains(got, w+"\n") {
					t.Errorf("completions %q missing %q", got, w)
				}
			}
			directive := fmt.Sprintf(":%d\n", cobra.ShellCompDirectiveNoFileComp)
			if !strings.Contains(got, directive) {
				t.Errorf("completions %q missing directive %q", got, directive)
			}
		})
	}
}

func TestDocumentCompletions(t *testing.T) {
	for _, sub := range []string{"render", "nodes"} {
		t.Run(sub, func(t *testing.T) {
			got := complete(t, sub, "")
			for _, ext := range documentExts {
				if !strings.Contains(got, ext+"\n") {
					t.Errorf("completions %q missing %q", got, ext)
				}
			}
			directive := fmt.Sprintf(":%d\n", cobra.ShellCompDirectiveFilterFileExt)
			if !strings.Contains(got, directive) {
				t.Errorf("completions %q missing directive %q", got, directive)
			}
		})
	}
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %q", shell, appName)
			}
		})
	}
}
