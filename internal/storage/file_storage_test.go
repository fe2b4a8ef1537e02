// internal/storage/file_storage_test.go
package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSaveAndLoadJSON 写入后能原样读回
func TestSaveAndLoadJSON(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	type record struct {
		OrderID  string `json:"order_id"`
		Verified bool   `json:"verified"`
	}

	in := map[string]record{"测算验证": {OrderID: "AI-1", Verified: true}}
	require.NoError(t, fs.SaveJSON("payments", "records.json", in))

	var out map[string]record
	require.NoError(t, fs.LoadJSON("payments", "records.json", &out))
	assert.Equal(t, in, out)
}

// TestSaveJSON_Atomic 写入完成后不应残留临时文件
func TestSaveJSON_Atomic(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, fs.SaveJSON("payments", "records.json", map[string]string{"k": "v"}))

	_, err = os.Stat(filepath.Join(dir, "payments", "records.json.tmp"))
	assert.True(t, os.IsNotExist(err), "临时文件应已改名为目标文件")
	assert.True(t, fs.Exists("payments", "records.json"))
}

// TestLoadJSON_MissingFile 文件不存在时报错而不是panic
func TestLoadJSON_MissingFile(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	var out map[string]string
	assert.Error(t, fs.LoadJSON("payments", "nope.json", &out))
	assert.False(t, fs.Exists("payments", "nope.json"))
}

// TestDelete 删除幂等：文件不存在也算成功
func TestDelete(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.SaveJSON("payments", "records.json", map[string]string{}))
	require.NoError(t, fs.Delete("payments", "records.json"))
	assert.False(t, fs.Exists("payments", "records.json"))

	assert.NoError(t, fs.Delete("payments", "records.json"))
}
