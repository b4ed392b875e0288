package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rostersync/internal/roster"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadContacts(t *testing.T) {
	t.Run("maps required columns", func(t *testing.T) {
		path := writeCSV(t, "Nome,Telefone,Email,Empresa\nX,91999999999,x@x.com,Co\n")

		contacts, err := ReadContacts(path)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, roster.Contact{Name: "X", Phone: "91999999999", Email: "x@x.com", Company: "Co"}, contacts[0])
	})

	t.Run("maps optional columns", func(t *testing.T) {
		path := writeCSV(t, "Nome,Telefone,Email,Empresa,CPF,CRM\nX,1,x@x.com,Co,12345678901,12345-PA\n")

		contacts, err := ReadContacts(path)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "12345678901", contacts[0].CPF)
		assert.Equal(t, "12345-PA", contacts[0].CRM)
	})

	t.Run("missing column leaves field empty", func(t *testing.T) {
		path := writeCSV(t, "Nome,Telefone\nX,1\n")

		contacts, err := ReadContacts(path)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Empty(t, contacts[0].Email)
		assert.Empty(t, contacts[0].Company)
	})

	t.Run("quoted fields", func(t *testing.T) {
		path := writeCSV(t, "Nome,Telefone,Email,Empresa\n\"Silva, Maria\",1,m@x.com,Co\n")

		contacts, err := ReadContacts(path)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "Silva, Maria", contacts[0].Name)
	})

	t.Run("header only yields no contacts", func(t *testing.T) {
		path := writeCSV(t, "Nome,Telefone,Email,Empresa\n")

		contacts, err := ReadContacts(path)
		require.NoError(t, err)
		assert.Empty(t, contacts)
	})

	t.Run("missing file is fatal", func(t *testing.T) {
		_, err := ReadContacts(filepath.Join(t.TempDir(), "missing.csv"))
		assert.Error(t, err)
	})
}
