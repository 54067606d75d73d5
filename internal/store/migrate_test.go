package store

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestReadMigrations_SortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_indexes_up.sql": &fstest.MapFile{Data: []byte("CREATE INDEX i ON t(a);")},
		"0001_init_up.sql":    &fstest.MapFile{Data: []byte("CREATE TABLE t (a INT);")},
		"0001_init_down.sql":  &fstest.MapFile{Data: []byte("DROP TABLE t;")},
		"embed.go":            &fstest.MapFile{Data: []byte("package x")},
	}

	files, err := readMigrations(fsys)
	require.NoError(t, err)
	// Solo los *_up.sql, en orden lexicográfico.
	require.Equal(t, []string{"0001_init_up.sql", "0002_indexes_up.sql"}, files)
}

func TestSplitStatements(t *testing.T) {
	script := `-- esquema inicial
CREATE TABLE a (
  id BIGINT
);

-- comentario suelto entre sentencias

CREATE TABLE b (id BIGINT);
INSERT INTO b (id) VALUES (1);
`
	stmts := splitStatements(script)
	require.Len(t, stmts, 3)
	require.Contains(t, stmts[0], "CREATE TABLE a")
	require.Contains(t, stmts[1], "CREATE TABLE b")
	require.Contains(t, stmts[2], "INSERT INTO b")
}

func TestSplitStatements_EmptyAndCommentOnly(t *testing.T) {
	require.Empty(t, splitStatements(""))
	require.Empty(t, splitStatements("-- solo comentarios;\n-- nada más"))
}

func TestLockID_Stable(t *testing.T) {
	// El lock id debe ser determinístico entre procesos.
	require.Equal(t, lockID(), lockID())
	require.NotZero(t, lockID())
}
