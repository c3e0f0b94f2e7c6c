package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsatony/go-promptcraft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Test data constants
const (
	testExamplesYAML = `- query: How do I become a better programmer?
  answer: Try talking to a rubber duck; it works wonders.
- query: Why is the sky blue?
  answer: It's nature's way of preventing eye strain.
`
	testFirstExample  = "\nUser: How do I become a better programmer?\nAI: Try talking to a rubber duck; it works wonders.\n"
	testSecondExample = "\nUser: Why is the sky blue?\nAI: It's nature's way of preventing eye strain.\n"
)

// setupExamples writes the example pool to a temp file
func setupExamples(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "examples.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testExamplesYAML), FilePermissions))
	return path
}

// fakeDeps builds dependencies whose completer is fn; prompts are recorded.
func fakeDeps(prompts *[]string, fn func(prompt string) (string, error)) *cliDeps {
	return &cliDeps{
		newCompleter: func(_ context.Context, cfg *promptcraft.ModelConfig, _ *zap.Logger) (promptcraft.Completer, error) {
			return promptcraft.CompleterFunc(func(_ context.Context, prompt string) (*promptcraft.Completion, error) {
				*prompts = append(*prompts, prompt)
				text, err := fn(prompt)
				if err != nil {
					return nil, err
				}
				return &promptcraft.Completion{Text: text, Provider: cfg.Provider, Model: cfg.Model}, nil
			}), nil
		},
	}
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, deps *cliDeps, stdin string, args ...string) cliResult {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	if deps == nil {
		deps = defaultDeps()
	}
	code := runWith(args, strings.NewReader(stdin), stdout, stderr, deps)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(nil, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeSuccess, exitCode)
	assert.Contains(t, stdout.String(), CLIName)
	assert.Contains(t, stdout.String(), CmdNameSelect)
	assert.Contains(t, stdout.String(), CmdNameSuggest)
}

func TestRun_UnknownCommand(t *testing.T) {
	res := execute(t, nil, "", "unknown")

	assert.Equal(t, ExitCodeUsageError, res.code)
	assert.Contains(t, res.stderr, "unknown")
}

func TestRun_UnknownFlag(t *testing.T) {
	res := execute(t, nil, "", CmdNameSelect, "--nope")
	assert.Equal(t, ExitCodeUsageError, res.code)
}

// ==================== select ====================

func TestSelect_Text(t *testing.T) {
	path := setupExamples(t)

	res := execute(t, nil, "", CmdNameSelect, "-e", path)

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "[0] length=18")
	assert.Contains(t, res.stdout, "[1] length=14")
	assert.Contains(t, res.stdout, "selected 2 of 2 examples (32/100 words)")
}

func TestSelect_BudgetStopsAtFirstOverflow(t *testing.T) {
	path := setupExamples(t)

	res := execute(t, nil, "", CmdNameSelect, "-e", path, "-b", "20", "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)

	var out selectOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, 20, out.Budget)
	assert.Equal(t, FlagDefaultUnit, out.Unit)
	assert.Equal(t, 2, out.PoolSize)
	assert.Equal(t, 18, out.TotalLength)
	require.Len(t, out.Selected, 1)
	assert.Equal(t, "How do I become a better programmer?", out.Selected[0].Example[promptcraft.FieldQuery])
}

func TestSelect_ZeroBudget(t *testing.T) {
	path := setupExamples(t)

	res := execute(t, nil, "", CmdNameSelect, "-e", path, "--budget=0")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, "selected 0 of 2 examples (0/0 words)\n", res.stdout)
}

func TestSelect_Stdin(t *testing.T) {
	res := execute(t, nil, testExamplesYAML, CmdNameSelect, "-e", InputSourceStdin, "-u", "runes")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "selected 1 of 2 examples")
	assert.Contains(t, res.stdout, "/100 runes)")
}

func TestSelect_TemplateFile(t *testing.T) {
	path := setupExamples(t)
	tmplPath := filepath.Join(t.TempDir(), "example.tmpl")
	require.NoError(t, os.WriteFile(tmplPath, []byte("Q: {query}"), FilePermissions))

	res := execute(t, nil, "", CmdNameSelect, "-e", path, "--template-file", tmplPath, "-b", "10")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "[0] length=8\nQ: How do I become a better programmer?\n")
	assert.Contains(t, res.stdout, "selected 1 of 2 examples (8/10 words)")
}

func TestSelect_Verbose(t *testing.T) {
	path := setupExamples(t)

	res := execute(t, nil, "", CmdNameSelect, "-e", path, "--verbose")

	require.Equal(t, ExitCodeSuccess, res.code)
	assert.Contains(t, res.stderr, promptcraft.LogMsgSelectorCreated)
}

func TestSelect_Errors(t *testing.T) {
	path := setupExamples(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected int
		message  string
	}{
		{"missing examples flag", "", []string{CmdNameSelect}, ExitCodeUsageError, FlagExamples},
		{"invalid format", "", []string{CmdNameSelect, "-e", path, "-F", "xml"}, ExitCodeUsageError, ErrMsgInvalidFormat},
		{"template conflict", "", []string{CmdNameSelect, "-e", path, "-t", "{query}", "--template-file", path}, ExitCodeUsageError, ErrMsgTemplateConflict},
		{"missing file", "", []string{CmdNameSelect, "-e", missing}, ExitCodeInputError, ErrMsgReadFileFailed},
		{"malformed examples", "query: [", []string{CmdNameSelect, "-e", InputSourceStdin}, ExitCodeInputError, ErrMsgLoadExamples},
		{"misspelled examples key", `{"exmaples": [{"query": "q", "answer": "a"}]}`, []string{CmdNameSelect, "-e", InputSourceStdin}, ExitCodeInputError, `did you mean "examples"?`},
		{"empty examples document", "", []string{CmdNameSelect, "-e", InputSourceStdin, "-b", "100"}, ExitCodeInputError, ErrMsgLoadExamples},
		{"negative budget", "", []string{CmdNameSelect, "-e", path, "--budget=-1"}, ExitCodeValidationError, ErrMsgSelectorInvalid},
		{"unknown unit", "", []string{CmdNameSelect, "-e", path, "-u", "bytes"}, ExitCodeValidationError, ErrMsgSelectorInvalid},
		{"invalid template", "", []string{CmdNameSelect, "-e", path, "-t", "{query"}, ExitCodeValidationError, ErrMsgTemplateInvalid},
		{"example lacks field", "", []string{CmdNameSelect, "-e", path, "-t", "{question}"}, ExitCodeValidationError, ErrMsgSelectorInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, nil, tt.stdin, tt.args...)
			assert.Equal(t, tt.expected, res.code)
			assert.Contains(t, res.stderr, tt.message)
			assert.Empty(t, res.stdout)
		})
	}
}

// ==================== render ====================

func TestRender_FewShotPrompt(t *testing.T) {
	path := setupExamples(t)

	res := execute(t, nil, "", CmdNameRender,
		"-e", path,
		"--prefix", "Here are some examples:",
		"--suffix", `User: {query}\nAI: `,
		"-v", "query=Who invented the telephone?")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	expected := "Here are some examples:\n" +
		testFirstExample + "\n" +
		testSecondExample + "\n" +
		"User: Who invented the telephone?\nAI: \n"
	assert.Equal(t, expected, res.stdout)
}

func TestRender_BudgetDropsExamples(t *testing.T) {
	path := setupExamples(t)

	res := execute(t, nil, "", CmdNameRender, "-e", path, "-b", "20", "--suffix", "{query}", "-v", "query=Q")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, testFirstExample+"\nQ\n", res.stdout)
	assert.NotContains(t, res.stdout, "sky")
}

func TestRender_Errors(t *testing.T) {
	path := setupExamples(t)

	tests := []struct {
		name     string
		args     []string
		expected int
		message  string
	}{
		{"missing input", []string{CmdNameRender, "-e", path, "--suffix", "{query}"}, ExitCodeValidationError, ErrMsgRenderFailed},
		{"malformed var", []string{CmdNameRender, "-e", path, "-v", "query"}, ExitCodeUsageError, ErrMsgInvalidVar},
		{"empty var key", []string{CmdNameRender, "-e", path, "-v", "=x"}, ExitCodeUsageError, ErrMsgInvalidVar},
		{"invalid prefix", []string{CmdNameRender, "-e", path, "--prefix", "oops }"}, ExitCodeValidationError, ErrMsgTemplateInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, nil, "", tt.args...)
			assert.Equal(t, tt.expected, res.code)
			assert.Contains(t, res.stderr, tt.message)
		})
	}
}

// ==================== ask ====================

func TestAsk_Text(t *testing.T) {
	var prompts []string
	deps := fakeDeps(&prompts, func(string) (string, error) { return "Jazz is improvised.", nil })

	res := execute(t, deps, "", CmdNameAsk, "-t", "Tell me about {genre}.", "-v", "genre=jazz")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, "Jazz is improvised.\n", res.stdout)
	assert.Equal(t, []string{"Tell me about jazz."}, prompts)
}

func TestAsk_JSON(t *testing.T) {
	var prompts []string
	deps := fakeDeps(&prompts, func(string) (string, error) { return "Rock, Jazz", nil })

	res := execute(t, deps, "", CmdNameAsk, "-t", `What are some musical genres?\nAnswer: `,
		"--provider", promptcraft.ProviderOllama, "-m", "llama3.1", "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)

	var completion promptcraft.Completion
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &completion))
	assert.Equal(t, "Rock, Jazz", completion.Text)
	assert.Equal(t, promptcraft.ProviderOllama, completion.Provider)
	assert.Equal(t, "llama3.1", completion.Model)
	assert.Equal(t, []string{"What are some musical genres?\nAnswer: "}, prompts)
}

func TestAsk_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		reply    func(string) (string, error)
		expected int
		message  string
		called   bool
	}{
		{
			name:     "missing template flag",
			args:     []string{CmdNameAsk},
			expected: ExitCodeUsageError,
			message:  FlagTemplate,
		},
		{
			name:     "missing input skips the model",
			args:     []string{CmdNameAsk, "-t", "Tell me about {genre}."},
			expected: ExitCodeValidationError,
			message:  ErrMsgRenderFailed,
		},
		{
			name:     "unknown provider",
			args:     []string{CmdNameAsk, "-t", "hi", "--provider", "mystery"},
			expected: ExitCodeValidationError,
			message:  ErrMsgConfigFailed,
		},
		{
			name:     "completion error",
			args:     []string{CmdNameAsk, "-t", "hi"},
			reply:    func(string) (string, error) { return "", errors.New("connection refused") },
			expected: ExitCodeError,
			message:  "connection refused",
			called:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompts []string
			reply := tt.reply
			if reply == nil {
				reply = func(string) (string, error) { return "unused", nil }
			}
			res := execute(t, fakeDeps(&prompts, reply), "", tt.args...)
			assert.Equal(t, tt.expected, res.code)
			assert.Contains(t, res.stderr, tt.message)
			assert.Equal(t, tt.called, len(prompts) > 0)
		})
	}
}

// ==================== suggest ====================

func TestSuggest_Text(t *testing.T) {
	var prompts []string
	deps := fakeDeps(&prompts, func(string) (string, error) {
		return "```json\n{\"words\": [\"conduct\", \"manners\", \"demeanor\"]}\n```", nil
	})

	res := execute(t, deps, "", CmdNameSuggest,
		"--word", "behaviour",
		"--context", "The behaviour of the students was disruptive.")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, "conduct\nmanners\ndemeanor\n", res.stdout)
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "target_word=behaviour")
	assert.Contains(t, prompts[0], "context=The behaviour of the students was disruptive.")
	assert.Contains(t, prompts[0], `"words"`)
}

func TestSuggest_JSON(t *testing.T) {
	var prompts []string
	deps := fakeDeps(&prompts, func(string) (string, error) { return `{"words": ["conduct"]}`, nil })

	res := execute(t, deps, "", CmdNameSuggest, "--word", "w", "--context", "c", "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)

	var out suggestions
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, []string{"conduct"}, out.Words)
}

func TestSuggest_RejectedOutput(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		expected int
		message  string
	}{
		{"leading digit", `{"words": ["1. conduct", "manners"]}`, ExitCodeValidationError, ErrMsgParseOutputFailed},
		{"empty list", `{"words": []}`, ExitCodeValidationError, ErrMsgParseOutputFailed},
		{"wrong type", `{"words": "conduct"}`, ExitCodeValidationError, ErrMsgParseOutputFailed},
		{"not json", "conduct, manners", ExitCodeValidationError, ErrMsgParseOutputFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompts []string
			deps := fakeDeps(&prompts, func(string) (string, error) { return tt.reply, nil })
			res := execute(t, deps, "", CmdNameSuggest, "--word", "w", "--context", "c")
			assert.Equal(t, tt.expected, res.code)
			assert.Contains(t, res.stderr, tt.message)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestSuggest_RequiresWordAndContext(t *testing.T) {
	res := execute(t, nil, "", CmdNameSuggest, "--word", "w")
	assert.Equal(t, ExitCodeUsageError, res.code)
	assert.Contains(t, res.stderr, FlagContext)
}

// ==================== version ====================

func TestVersion_Text(t *testing.T) {
	res := execute(t, nil, "", CmdNameVersion)

	require.Equal(t, ExitCodeSuccess, res.code)
	assert.Contains(t, res.stdout, "promptcraft version")
	assert.Contains(t, res.stdout, "Go:")
}

func TestVersion_JSON(t *testing.T) {
	res := execute(t, nil, "", CmdNameVersion, "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, res.code)

	var out buildInfo
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.NotEmpty(t, out.Version)
	assert.NotEmpty(t, out.GoVersion)
}

func TestLoadBuildInfo_FirstReadableManifestWins(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("project: [unterminated"), FilePermissions))
	good := filepath.Join(dir, VersionsFile)
	content := "project:\n  version: 1.2.3\ngit:\n  commit: abc123\n  branch: release\nbuild:\n  time: 2026-01-01T00:00:00Z\n"
	require.NoError(t, os.WriteFile(good, []byte(content), FilePermissions))

	info := loadBuildInfo([]string{filepath.Join(dir, "absent.yaml"), broken, good})

	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, "release", info.Branch)
	assert.Equal(t, "2026-01-01T00:00:00Z", info.BuildTime)
	assert.NotEmpty(t, info.GoVersion)
}

func TestLoadBuildInfo_NoManifest(t *testing.T) {
	info := loadBuildInfo(nil)
	assert.Equal(t, VersionUnknown, info.Commit)
	assert.Equal(t, VersionUnknown, info.Branch)
	assert.Equal(t, VersionUnknown, info.BuildTime)
}

func TestManifestCandidates(t *testing.T) {
	got := manifestCandidates()
	require.Len(t, got, 3)
	assert.Equal(t, VersionsFile, got[0])
	assert.Equal(t, filepath.Join("..", "..", VersionsFile), got[2])
}

// ==================== helpers ====================

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"a=1", " b =x=y", `c=line\nbreak`, "d="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "c": "line\nbreak", "d": ""}, vars)

	_, err = parseVars([]string{"novalue"})
	var ce *cliError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ExitCodeUsageError, ce.code)
}
