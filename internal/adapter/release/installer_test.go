package release

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"jito-speedtest/internal/domain/entity"
	"jito-speedtest/internal/pkg/apperrors"

	"github.com/klauspost/compress/gzip"
	"github.com/minio/selfupdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o755,
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func zipped(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestExtractBinary(t *testing.T) {
	t.Run("tar.gz", func(t *testing.T) {
		archive := tarGz(t, map[string]string{
			"README.md":                        "docs",
			"jito-speedtest-v1/jito-speedtest": "ELF",
			"jito-speedtest-v1/LICENSE":        "MIT",
		})
		r, err := extractBinary("jito-speedtest-linux.tar.gz", "jito-speedtest", bytes.NewReader(archive))
		require.NoError(t, err)
		assert.Equal(t, "ELF", readAll(t, r))
	})

	t.Run("zip with exe", func(t *testing.T) {
		archive := zipped(t, map[string]string{"jito-speedtest.exe": "MZ"})
		r, err := extractBinary("jito-speedtest-windows.ZIP", "jito-speedtest", bytes.NewReader(archive))
		require.NoError(t, err)
		assert.Equal(t, "MZ", readAll(t, r))
	})

	t.Run("plain gzip", func(t *testing.T) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, err := gz.Write([]byte("raw"))
		require.NoError(t, err)
		require.NoError(t, gz.Close())

		r, err := extractBinary("jito-speedtest.gz", "jito-speedtest", &buf)
		require.NoError(t, err)
		assert.Equal(t, "raw", readAll(t, r))
	})

	t.Run("raw binary", func(t *testing.T) {
		r, err := extractBinary("jito-speedtest-linux-amd64", "jito-speedtest", bytes.NewReader([]byte("bin")))
		require.NoError(t, err)
		assert.Equal(t, "bin", readAll(t, r))
	})

	t.Run("binary missing from archive", func(t *testing.T) {
		archive := tarGz(t, map[string]string{"other-tool": "x"})
		_, err := extractBinary("a.tgz", "jito-speedtest", bytes.NewReader(archive))
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("corrupt archive", func(t *testing.T) {
		_, err := extractBinary("a.tar.gz", "jito-speedtest", bytes.NewReader([]byte("nope")))
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

		_, err = extractBinary("a.zip", "jito-speedtest", bytes.NewReader([]byte("nope")))
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestSelfInstaller_Install(t *testing.T) {
	var applied string
	installer := NewSelfInstaller("jito-speedtest", zap.NewNop())
	installer.apply = func(update io.Reader, _ selfupdate.Options) error {
		data, err := io.ReadAll(update)
		applied = string(data)
		return err
	}

	archive := tarGz(t, map[string]string{"jito-speedtest": "new-build"})
	err := installer.Install(context.Background(), entity.ReleaseAsset{Name: "x.tar.gz"}, bytes.NewReader(archive))
	require.NoError(t, err)
	assert.Equal(t, "new-build", applied)
}

func TestSelfInstaller_InstallErrors(t *testing.T) {
	installer := NewSelfInstaller("jito-speedtest", zap.NewNop())
	installer.apply = func(io.Reader, selfupdate.Options) error {
		return errors.New("permission denied")
	}

	err := installer.Install(context.Background(), entity.ReleaseAsset{Name: "bin"}, bytes.NewReader([]byte("x")))
	assert.True(t, errors.Is(err, apperrors.ErrInternal))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = installer.Install(ctx, entity.ReleaseAsset{Name: "bin"}, bytes.NewReader([]byte("x")))
	assert.True(t, errors.Is(err, apperrors.ErrTimeout))
}
