package filestorage_test

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmay/courtside/internal/pkg/filestorage"
)

func newStorage(t *testing.T) *filestorage.LocalStorage {
	t.Helper()
	ls, err := filestorage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return ls
}

func TestSaveFileRejectsOversizedUpload(t *testing.T) {
	ls := newStorage(t)

	header := &multipart.FileHeader{
		Filename: "proof.png",
		Size:     filestorage.MaxFileSize + 1,
	}
	_, err := ls.SaveFile(header, "payment-proofs")
	assert.ErrorIs(t, err, filestorage.ErrFileTooLarge)
}

func TestSaveFileRejectsDisallowedType(t *testing.T) {
	ls := newStorage(t)

	for _, name := range []string{"proof.exe", "proof.sh", "proof"} {
		header := &multipart.FileHeader{Filename: name, Size: 1024}
		_, err := ls.SaveFile(header, "payment-proofs")
		assert.ErrorIs(t, err, filestorage.ErrFileTypeNotAllowed, name)
	}
}

func TestSaveFileNilHeaderIsNoop(t *testing.T) {
	ls := newStorage(t)

	url, err := ls.SaveFile(nil, "payment-proofs")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestDeleteFileMissingIsIdempotent(t *testing.T) {
	ls := newStorage(t)

	assert.NoError(t, ls.DeleteFile("/uploads/payment-proofs/gone.png"))
	assert.NoError(t, ls.DeleteFile(""))
}
