package mvxshell

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected []token
	}{
		{
			name:     "simple command",
			script:   "echo hello",
			expected: []token{{tokCommand, "echo hello"}},
		},
		{
			name:   "command with &&",
			script: "echo hello && echo world",
			expected: []token{
				{tokCommand, "echo hello"},
				{tokOperator, "&&"},
				{tokCommand, "echo world"},
			},
		},
		{
			name:   "command with ||",
			script: "false || echo backup",
			expected: []token{
				{tokCommand, "false"},
				{tokOperator, "||"},
				{tokCommand, "echo backup"},
			},
		},
		{
			name:   "command with pipe",
			script: "echo hello | grep hello",
			expected: []token{
				{tokCommand, "echo hello"},
				{tokPipe, "|"},
				{tokCommand, "grep hello"},
			},
		},
		{
			name:   "command with semicolon",
			script: "echo hello; echo world",
			expected: []token{
				{tokCommand, "echo hello"},
				{tokSemicolon, ";"},
				{tokCommand, "echo world"},
			},
		},
		{
			name:   "quoted arguments",
			script: "echo 'hello world' && echo \"test\"",
			expected: []token{
				{tokCommand, "echo 'hello world'"},
				{tokOperator, "&&"},
				{tokCommand, "echo \"test\""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokenize(tt.script)
			if err != nil {
				t.Fatalf("tokenize() error = %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("tokenize() = %+v, want %+v", got, tt.expected)
			}
			for i, tok := range got {
				if tok != tt.expected[i] {
					t.Errorf("token %d = %+v, want %+v", i, tok, tt.expected[i])
				}
			}
		})
	}
}

func TestTokenizeRejectsUnterminatedQuote(t *testing.T) {
	if _, err := tokenize(`echo "unterminated`); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}

func TestParseCommandExtractsLeadingEnvAssignments(t *testing.T) {
	cmd, err := parseCommand("JAVA_HOME=/opt/java mvn -v")
	if err != nil {
		t.Fatalf("parseCommand: %v", err)
	}
	if cmd.Name != "mvn" || len(cmd.Args) != 1 || cmd.Args[0] != "-v" {
		t.Fatalf("got %+v", cmd)
	}
	if cmd.Env["JAVA_HOME"] != "/opt/java" {
		t.Fatalf("expected JAVA_HOME env assignment, got %+v", cmd.Env)
	}
}

func TestParseCommandsHandlesConsecutiveOperatorError(t *testing.T) {
	if _, err := parseCommands("echo a && && echo b"); err == nil {
		t.Fatal("expected error for consecutive operators")
	}
}

func TestExpandVariablesHandlesBraceAndBareForms(t *testing.T) {
	s := New("/tmp", nil)
	env := map[string]string{"HOME": "/home/dev", "TOOL": "node"}

	if got := s.ExpandVariables("${HOME}/bin", env); got != "/home/dev/bin" {
		t.Errorf("got %q", got)
	}
	if got := s.ExpandVariables("$TOOL-cli", env); got != "node-cli" {
		t.Errorf("got %q", got)
	}
}

func TestExecuteRunsChainsIndependentlyOnSemicolon(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)

	err := s.Execute(context.Background(), "mkdir sub1; mkdir sub2")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, name := range []string{"sub1", "sub2"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestExecuteAndShortCircuitsOnFailure(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)

	err := s.Execute(context.Background(), "rm /does/not/exist/at/all && mkdir should-not-appear")
	if err == nil {
		t.Fatal("expected rm failure to propagate")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "should-not-appear")); !os.IsNotExist(statErr) {
		t.Fatal("expected && to short-circuit after failure")
	}
}

func TestExecuteOrRunsFallbackOnlyAfterFailure(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)

	err := s.Execute(context.Background(), "rm /does/not/exist/at/all || mkdir fallback")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "fallback")); err != nil {
		t.Errorf("expected fallback directory to be created: %v", err)
	}
}

func TestChangeDirectoryRejectsMissingDir(t *testing.T) {
	s := New(t.TempDir(), nil)
	if err := s.changeDirectory([]string{"does-not-exist"}); err == nil {
		t.Fatal("expected error changing into a missing directory")
	}
}

func TestCopyDuplicatesFileContents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := New(dir, nil)
	if err := s.copy([]string{"a.txt", "b.txt"}); err != nil {
		t.Fatalf("copy: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "b.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestIsValidEnvVarNameRejectsLeadingDigit(t *testing.T) {
	if isValidEnvVarName("1FOO") {
		t.Fatal("expected leading digit to be rejected")
	}
	if !isValidEnvVarName("_FOO_1") {
		t.Fatal("expected underscore-prefixed name to be valid")
	}
}
