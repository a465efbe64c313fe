package series

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/crossover/internal/core"
	"github.com/newthinker/crossover/internal/storage/archive"
)

func TestDecode(t *testing.T) {
	data := []byte("date,close\n2023-01-02,101.5\n2023-01-03,102\n2023-01-05,99.25\n")

	s, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.Equal(t, []float64{101.5, 102, 99.25}, s.Closes())
	assert.Equal(t, "2023-01-05", s[2].Time.Format("2006-01-02"))
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"header only", "date,close\n"},
		{"bad date", "date,close\n01/02/2023,100\n"},
		{"bad close", "date,close\n2023-01-02,abc\n"},
		{"negative close", "date,close\n2023-01-02,-4\n"},
		{"descending dates", "date,close\n2023-01-03,100\n2023-01-02,101\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	store, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	original, err := NewGenerator(DefaultGeneratorConfig()).Generate(30)
	require.NoError(t, err)

	require.NoError(t, Save(ctx, store, "sample/prices.csv", original))

	loaded, err := Load(ctx, store, "sample/prices.csv")
	require.NoError(t, err)

	// Shortest round-trip formatting preserves every bit
	assert.Equal(t, original.Closes(), loaded.Closes())
	assert.Equal(t, original[29].Time, loaded[29].Time)
}

func TestLoad_Missing(t *testing.T) {
	store, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	_, err = Load(context.Background(), store, "missing.csv")
	assert.True(t, errors.Is(err, core.ErrStorageFailed), "got %v", err)
}
