package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"github.com/loroshop/loro/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with Korean characters should pass through unchanged.
	input := "상품명,SKU,공급가\n반지 A,R1,12000\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// UTF-8 BOM (0xEF 0xBB 0xBF) should be stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("상품명,SKU,공급가\n")
	input := append(bom, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "상품명,SKU,공급가\n", string(got))
}

func TestNewUTF8Reader_EUCKR(t *testing.T) {
	// Excel on Korean Windows saves CSV as EUC-KR/CP949.
	input := "상품명,SKU,공급가\n목걸이,N1,8000\n"

	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(input))
	require.NoError(t, err)
	require.False(t, bytes.Equal(encoded, []byte(input)))

	r, err := encoding.NewUTF8Reader(bytes.NewReader(encoded))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_NonUTF8FallsBackToEUCKR(t *testing.T) {
	// Undetectable short non-UTF-8 input decodes as EUC-KR.
	input := "여진,10000\n소연,4000\n"

	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(input))
	require.NoError(t, err)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(encoded))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}
