package blob

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExt(t *testing.T) {
	ext, ok := Ext("photo.JPG", AttachmentExts)
	require.True(t, ok)
	require.Equal(t, "jpg", ext)

	_, ok = Ext("script.exe", AttachmentExts)
	require.False(t, ok)

	_, ok = Ext("noext", AttachmentExts)
	require.False(t, ok)

	_, ok = Ext("trailing.", AttachmentExts)
	require.False(t, ok)

	// Videos are fine as attachments but not as work photos.
	_, ok = Ext("clip.mp4", AttachmentExts)
	require.True(t, ok)
	_, ok = Ext("clip.mp4", ImageExts)
	require.False(t, ok)
}

func TestSave(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, zap.NewNop())
	require.NoError(t, err)

	ref, err := store.Save(CategoryComplaints, "png", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, CategoryComplaints+"/"))
	require.True(t, strings.HasSuffix(ref, ".png"))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(ref)))
	require.NoError(t, err)
	require.Equal(t, "image-bytes", string(data))

	// Names are unique per save.
	ref2, err := store.Save(CategoryComplaints, "png", strings.NewReader("other"))
	require.NoError(t, err)
	require.NotEqual(t, ref, ref2)
}

func multipartFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r, err := http.NewRequest(http.MethodPost, "/", &buf)
	require.NoError(t, err)
	r.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, r.ParseMultipartForm(32<<20))
	return r.MultipartForm.File["files"]
}

func TestSaveMultipartSkipsDisallowed(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	refs := store.SaveMultipart(CategoryComplaints, multipartFiles(t, "a.png", "b.exe", "c.pdf"), AttachmentExts)
	require.Len(t, refs, 2)
	for _, ref := range refs {
		require.False(t, strings.HasSuffix(ref, ".exe"))
	}

	refs = store.SaveMultipart(CategoryWorkPhotos, multipartFiles(t, "x.webp", "y.mov"), ImageExts)
	require.Len(t, refs, 1)
	require.True(t, strings.HasSuffix(refs[0], ".webp"))
}
