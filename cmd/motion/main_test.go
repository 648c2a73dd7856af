package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/motion/internal/presentation/tui"
	"github.com/aretw0/motion/pkg/config"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "motion version ")
}

func TestValidateCommand(t *testing.T) {
	out := execute(t, "validate", filepath.Join("..", "..", "pkg", "config", "testdata", "library.yaml"))
	assert.Contains(t, out, "Library is valid")
}

func TestGraphCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"session_id":"a","elements":[{"key":0,"state":"hiding"}]}`), 0o644))

	out := execute(t, "graph", path)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "class hiding current;")
}

func TestWriteReport(t *testing.T) {
	report, err := tui.Describe(config.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report, ""))
	assert.Contains(t, buf.String(), "library")
	assert.NotContains(t, buf.String(), "\x1b[")

	buf.Reset()
	require.NoError(t, writeReport(&buf, report, "yaml"))
	var decoded tui.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, len(report.Enters), len(decoded.Enters))

	buf.Reset()
	require.NoError(t, writeReport(&buf, report, "json"))
	assert.Contains(t, buf.String(), `"fade-in"`)

	assert.Error(t, writeReport(&buf, report, "html"))
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	be, err := openBackend(storeFlags{kind: "memory"})
	require.NoError(t, err)
	assert.Nil(t, be.locker)

	be, err = openBackend(storeFlags{kind: "file", dir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, be.store.Save(ctx, &domain.Frame{SessionID: "a", Revision: 1}))
	ids, err := be.store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	mr := miniredis.RunT(t)
	be, err = openBackend(storeFlags{kind: "redis", address: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, be.locker)
	unlock, err := be.locker.Lock(ctx, "a", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
	require.NoError(t, be.close())

	_, err = openBackend(storeFlags{kind: "etcd"})
	assert.Error(t, err)
}

func TestOpenBackend_Encrypted(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	be, err := openBackend(storeFlags{kind: "file", dir: dir, key: key})
	require.NoError(t, err)
	require.NoError(t, be.store.Save(ctx, &domain.Frame{SessionID: "a", Revision: 1, Markup: "<div>secret</div>"}))

	raw, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	loaded, err := be.store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "<div>secret</div>", loaded.Markup)

	_, err = openBackend(storeFlags{kind: "memory", key: "bm90LWEta2V5"})
	assert.Error(t, err)
}
