package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masmgr/dephistory-go/internal/testutil"
)

func buildFixtureRepo(t *testing.T) *testutil.Repo {
	t.Helper()

	clock := testutil.NewClock()
	repo := testutil.NewDiskRepo(t)
	repo.Write("package.json", `{"dependencies":{"lodash":"^4.0.0"}}`)
	repo.Commit("add lodash", clock.Tick())
	repo.Write("README.md", "docs")
	repo.Commit("docs", clock.Tick())
	repo.Write("package.json", `{"dependencies":{"lodash":"^4.17.0"},"devDependencies":{"mocha":"^10.0.0"}}`)
	repo.Commit("bump lodash", clock.Tick())
	repo.Write("web/bower.json", `{"dependencies":{"jquery":"~2.1.0"}}`)
	repo.Commit("add bower", clock.Tick())
	repo.Write("node_modules/lodash/package.json", `{"dependencies":{"nested":"1.0.0"}}`)
	repo.Commit("vendor", clock.Tick())
	return repo
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stdout

	missingConfig := filepath.Join(t.TempDir(), "none.json")
	argv := append([]string{"dephistory", "--config", missingConfig}, args...)
	err := app.Run(argv)
	return stdout.String(), err
}

func TestFilesCommand(t *testing.T) {
	repo := buildFixtureRepo(t)

	out, err := runApp(t, "files", "-q", repo.Dir)
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Equal(t, []string{"package.json", "web/bower.json"}, lines)
}

func TestFilesCommandIncludesModulesWhenAsked(t *testing.T) {
	repo := buildFixtureRepo(t)

	out, err := runApp(t, "files", "-q", "--ignore-modules=false", repo.Dir)
	require.NoError(t, err)
	require.Contains(t, out, "node_modules/lodash/package.json")
}

func TestAnalyzeCommandWritesJSONTimeline(t *testing.T) {
	repo := buildFixtureRepo(t)
	outPath := filepath.Join(t.TempDir(), "timeline.json")

	_, err := runApp(t, "analyze", "-q", "-o", outPath, repo.Dir)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 3)

	require.Equal(t, "package.json", records[0]["file"])
	require.Equal(t, map[string]any{"lodash": "^4.0.0"}, records[0]["dependencies"])
	require.NotContains(t, records[0], "devDependencies")

	require.Equal(t, "package.json", records[1]["file"])
	require.Equal(t, map[string]any{"mocha": "^10.0.0"}, records[1]["devDependencies"])

	require.Equal(t, "web/bower.json", records[2]["file"])
	require.Equal(t, "Test Author", records[2]["author"])
}

func TestAnalyzeCommandSinceFilter(t *testing.T) {
	repo := buildFixtureRepo(t)

	out, err := runApp(t, "analyze", "-q", "--since", "2021-01-01", repo.Dir)
	require.NoError(t, err)
	require.Equal(t, "[]", strings.TrimSpace(out))
}

func TestDefaultActionRunsAnalyze(t *testing.T) {
	repo := buildFixtureRepo(t)

	out, err := runApp(t, "-q", "-f", "ndjson", repo.Dir)
	require.NoError(t, err)
	require.Contains(t, out, `"web/bower.json"`)
}

func TestSummaryCommandJSON(t *testing.T) {
	repo := buildFixtureRepo(t)

	out, err := runApp(t, "summary", "-q", "-f", "json", repo.Dir)
	require.NoError(t, err)

	var report struct {
		TotalFiles int `json:"totalFiles"`
		Files      []struct {
			Path      string `json:"path"`
			Snapshots int    `json:"snapshots"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 2, report.TotalFiles)
	require.Equal(t, "package.json", report.Files[0].Path)
	require.Equal(t, 2, report.Files[0].Snapshots)
}

func TestAnalyzeCommandRejectsUnknownFormat(t *testing.T) {
	repo := buildFixtureRepo(t)

	_, err := runApp(t, "analyze", "-q", "-f", "xml", repo.Dir)
	require.Error(t, err)
}

func TestAnalyzeCommandRejectsBadRepository(t *testing.T) {
	_, err := runApp(t, "analyze", "-q", "not a repo!")
	require.Error(t, err)
}

func TestAnalyzeCommandCategoryFilter(t *testing.T) {
	repo := buildFixtureRepo(t)

	out, err := runApp(t, "analyze", "-q", "--category", "dev", repo.Dir)
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	require.Equal(t, "package.json", records[0]["file"])
	require.Equal(t, map[string]any{"mocha": "^10.0.0"}, records[0]["devDependencies"])
	require.NotContains(t, records[0], "dependencies")
}

func TestAnalyzeCommandRejectsUnknownCategory(t *testing.T) {
	repo := buildFixtureRepo(t)

	_, err := runApp(t, "analyze", "-q", "--category", "engines", repo.Dir)
	require.ErrorContains(t, err, "engines")
}
