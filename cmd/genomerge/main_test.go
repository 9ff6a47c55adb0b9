package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inodb/genomerge/internal/duckdb"
)

const primary23andMe = `# This data file generated by 23andMe at: Mon Jan 01 00:00:00 2024
# rsid	chromosome	position	genotype
rs1	1	100	AG
rs2	1	200	--
rs3	X	300	A
rs4	2	400	CC
rs8	4	800	AG
rs9	4	900	CT
`

const secondaryAncestry = `#AncestryDNA raw data download
rsid	chromosome	position	allele1	allele2
rs1	1	100	A	G
rs2	1	200	C	C
rs3	23	300	A	A
rs4	2	400	T	T
rs5	3	500	G	G
rs8	4	800	G	A
rs9	4	900	T	C
`

// setup isolates the test from any user config and writes both inputs.
func setup(t *testing.T) (dir, primary, secondary string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	dir = t.TempDir()
	primary = filepath.Join(dir, "genome_23andme.txt")
	secondary = filepath.Join(dir, "AncestryDNA.txt")
	require.NoError(t, os.WriteFile(primary, []byte(primary23andMe), 0o644))
	require.NoError(t, os.WriteFile(secondary, []byte(secondaryAncestry), 0o644))
	return dir, primary, secondary
}

func execute(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_WrongArgCount(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	code, _, stderr := execute("only-one.txt")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "Error: expected 3 arguments")
	assert.Contains(t, stderr, "Usage:")
}

func TestRun_UnknownFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	code, _, stderr := execute("--bogus", "a", "b", "c")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "Error: unknown flag: --bogus")
}

func TestRun_MissingInput(t *testing.T) {
	dir, primary, _ := setup(t)
	missing := filepath.Join(dir, "nope.txt")

	code, _, stderr := execute(primary, missing, filepath.Join(dir, "out.txt"))
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "Error: input file '"+missing+"' does not exist")
	assert.NoFileExists(t, filepath.Join(dir, "out.txt"))
}

func TestRun_UndetectedFormat(t *testing.T) {
	dir, primary, _ := setup(t)
	garbage := filepath.Join(dir, "garbage.txt")
	require.NoError(t, os.WriteFile(garbage, []byte("hello world\nnothing here\n"), 0o644))

	code, _, stderr := execute(primary, garbage, filepath.Join(dir, "out.txt"))
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "Error: ")
	assert.Contains(t, stderr, "garbage.txt")
}

func TestRun_Merge(t *testing.T) {
	dir, primary, secondary := setup(t)
	out := filepath.Join(dir, "merged.txt")

	code, stdout, stderr := execute("-q", primary, secondary, out)
	require.Equal(t, ExitSuccess, code, stderr)

	assert.Contains(t, stdout, "Merge complete:")
	assert.Contains(t, stdout, "- Total SNPs in merged file: 7")
	assert.Contains(t, stdout, "- SNPs added from secondary file: 1")
	assert.Contains(t, stdout, "- No-call resolutions (no-call replaced with real data): 1")
	assert.Contains(t, stdout, "- Sex chromosome normalizations (X, Y, MT single/double letter): 1")
	assert.Contains(t, stdout, "- Same alleles but different order: 2")
	assert.Contains(t, stdout, "- True genotype conflicts found (primary values used): 1")
	assert.NotContains(t, stdout, "orientation difference")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	merged := string(data)
	for _, line := range []string{
		"rs1\t1\t100\tAG\n",
		"rs2\t1\t200\tCC\n",
		"rs3\tX\t300\tAA\n",
		"rs4\t2\t400\tCC\n",
		"rs5\t3\t500\tGG\n",
		"rs8\t4\t800\tAG\n",
		"rs9\t4\t900\tCT\n",
	} {
		assert.Contains(t, merged, line)
	}

	for _, suffix := range []string{
		".conflicts.txt",
		".nocall_resolutions.txt",
		".sex_chromosome_normalizations.txt",
		".same_alleles_diff_order.txt",
	} {
		assert.FileExists(t, out+suffix)
	}
	assert.NoFileExists(t, summaryPath(out))

	assert.Contains(t, merged, "# Primary header: This data file generated by 23andMe at: Mon Jan 01 00:00:00 2024\n")
	assert.Contains(t, merged, "# Secondary header: AncestryDNA raw data download\n")
}

func TestRun_MergeSelf(t *testing.T) {
	dir, primary, _ := setup(t)
	out := filepath.Join(dir, "self.txt")

	code, stdout, stderr := execute("-q", primary, primary, out)
	require.Equal(t, ExitSuccess, code, stderr)

	assert.Contains(t, stdout, "- Total SNPs in merged file: 6")
	assert.Contains(t, stdout, "- True genotype conflicts found (primary values used): 0")
	// Only the shared no-call is reported.
	assert.FileExists(t, out+".nocall_resolutions.txt")
	assert.NoFileExists(t, out+".conflicts.txt")
	assert.NoFileExists(t, out+".same_alleles_diff_order.txt")
}

func TestRun_SummaryAndHistory(t *testing.T) {
	dir, primary, secondary := setup(t)
	out := filepath.Join(dir, "merged.txt")
	db := filepath.Join(dir, "history.duckdb")

	code, _, stderr := execute("-q", "--summary", "--db", db, primary, secondary, out)
	require.Equal(t, ExitSuccess, code, stderr)

	data, err := os.ReadFile(summaryPath(out))
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, yaml.Unmarshal(data, &summary))
	assert.Equal(t, out, summary["output"])

	code, stdout, stderr := execute("runs", "--db", db)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "ID")
	assert.Contains(t, stdout, primary+" (23andme)")
	assert.Contains(t, stdout, secondary+" (ancestry)")
	assert.Contains(t, stdout, "unchanged")
}

// mergeWithHistory runs one merge recorded in a fresh history store and
// returns the store path and the run id.
func mergeWithHistory(t *testing.T) (db, id string) {
	t.Helper()
	dir, primary, secondary := setup(t)
	db = filepath.Join(dir, "history.duckdb")

	code, _, stderr := execute("-q", "--db", db, primary, secondary, filepath.Join(dir, "merged.txt"))
	require.Equal(t, ExitSuccess, code, stderr)

	store, err := duckdb.Open(db)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	return db, runs[0].ID
}

// fieldsOf returns the whitespace-separated fields of the first output line
// starting with prefix.
func fieldsOf(t *testing.T, out, prefix string) []string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.Fields(line)
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", prefix, out)
	return nil
}

func TestRun_RunsShow(t *testing.T) {
	db, id := mergeWithHistory(t)

	code, stdout, stderr := execute("runs", "show", id, "--db", db)
	require.Equal(t, ExitSuccess, code, stderr)

	assert.Contains(t, stdout, "Run "+id)
	assert.Contains(t, stdout, "- Total SNPs: 7\n")
	assert.Contains(t, stdout, "- true_conflict: 1\n")
	assert.Contains(t, stdout, "- nocall_resolution: 1\n")
	assert.Contains(t, stdout, "- sex_chromosome_normalization: 1\n")
	assert.Contains(t, stdout, "- same_alleles_diff_order: 2\n")

	assert.Equal(t, []string{"rs4", "2", "400", "CC", "TT", "CC"}, fieldsOf(t, stdout, "rs4"))
	assert.Equal(t, []string{"rs2", "1", "200", "--", "CC", "CC"}, fieldsOf(t, stdout, "rs2"))
	assert.Equal(t, []string{"rs3", "X", "300", "A", "AA", "AA"}, fieldsOf(t, stdout, "rs3"))
}

func TestRun_RunsShowCall(t *testing.T) {
	db, id := mergeWithHistory(t)

	code, stdout, stderr := execute("runs", "show", id, "--rsid", "rs5", "--db", db)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, []string{"rs5", "3", "500", "GG", "secondary", "none"}, fieldsOf(t, stdout, "rs5"))

	code, _, stderr = execute("runs", "show", id, "--rsid", "rs999", "--db", db)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "marker rs999 not found in run "+id)
}

func TestRun_RunsShowUnknown(t *testing.T) {
	db, _ := mergeWithHistory(t)

	code, _, stderr := execute("runs", "show", "no-such-run", "--db", db)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, `run "no-such-run" not found`)
}

func TestRun_RunsClear(t *testing.T) {
	db, _ := mergeWithHistory(t)

	code, stdout, stderr := execute("runs", "clear", "--db", db)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Cleared run history in "+db)

	code, stdout, stderr = execute("runs", "--db", db)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "No runs recorded.")
}

func TestRun_RunsWithoutStore(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	code, _, stderr := execute("runs")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "no history store configured")
}

func TestRun_ConfigSetGet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := filepath.Join(t.TempDir(), "genomerge.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("report:\n  atomic: true\n"), 0o644))

	code, stdout, stderr := execute("--config", cfg, "config", "set", "report.summary", "yes")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Set report.summary = yes in "+cfg)

	code, stdout, stderr = execute("--config", cfg, "config", "get", "report.summary")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "true\n", stdout)
}

func TestRun_ConfigFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GENOMERGE_STORE_PATH", "/tmp/history.duckdb")

	code, stdout, stderr := execute("config", "get", "store.path")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "/tmp/history.duckdb\n", stdout)
}

func TestRun_MissingExplicitConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	code, _, stderr := execute("--config", filepath.Join(t.TempDir(), "absent.yaml"), "config")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "read config")
}

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     string
		verbose bool
		quiet   bool
		want    string
	}{
		{name: "default", want: "info"},
		{name: "env", env: "error", want: "error"},
		{name: "verbose beats env", env: "error", verbose: true, want: "debug"},
		{name: "quiet", quiet: true, want: "warn"},
		{name: "quiet beats verbose", verbose: true, quiet: true, want: "warn"},
		{name: "flag beats all", args: []string{"--log-level", "error"}, verbose: true, want: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			if tt.env != "" {
				t.Setenv("GENOMERGE_LOG_LEVEL", tt.env)
			}

			a := newApp(&bytes.Buffer{}, &bytes.Buffer{})
			root := a.newRootCmd()
			require.NoError(t, root.ParseFlags(tt.args))
			require.NoError(t, a.initConfig(""))

			assert.Equal(t, tt.want, determineLogLevel(root, a.v, tt.verbose, tt.quiet))
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("warn", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = newLogger("loud", &buf)
	assert.Error(t, err)
}

func TestRun_InvalidLogLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	code, _, stderr := execute("--log-level", "loud", "config")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, `invalid log level "loud"`)
}
